package domain

import "time"

// Status enumerates the lifecycle of a match.
type Status string

const (
	StatusSetup    Status = "SETUP"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

// Fixed game rules. These are product constants, not configuration.
const (
	// PointsPerCorrect is the flat award for a correct answer.
	PointsPerCorrect = 100
	// OptionsPerQuestion is the required number of answer options.
	OptionsPerQuestion = 4
	// QuestionSeconds is the per-question countdown in whole seconds.
	QuestionSeconds = 15
	// RevealDelay is how long the outcome stays on screen before the
	// answered event reaches the match.
	RevealDelay = 2500 * time.Millisecond
	// TimeoutOption is the sentinel selection used when the countdown
	// expires; it never matches a valid option index.
	TimeoutOption = -1
	// DefaultRounds is the number of rounds when none is configured.
	DefaultRounds = 5
)

// DefaultPlayerNames are the seat names before setup renames them.
var DefaultPlayerNames = [2]string{"Player 1", "Player 2"}

// PlayerColors are the fixed display-color tags per seat.
var PlayerColors = [2]string{"cyan", "fuchsia"}

// PopularTopics are suggestions shown on the setup screen.
var PopularTopics = []string{
	"General Knowledge",
	"Science & Nature",
	"Pop Culture",
	"History",
	"Movies",
	"Technology",
}

// Player is one of the two fixed seats in a match.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// Question is a single generated trivia question.
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswerIndex"`
	Explanation  string   `json:"explanation"`
}

// Outcome reports the result of a finished match.
type Outcome struct {
	Draw   bool    `json:"draw"`
	Winner *Player `json:"winner,omitempty"`
}

// Snapshot is the observable game state pushed to the presentation layer.
type Snapshot struct {
	Status             Status    `json:"status"`
	Topic              string    `json:"topic,omitempty"`
	Round              int       `json:"round"`
	TotalRounds        int       `json:"totalRounds"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	Players            [2]Player `json:"players"`
	Question           *Question `json:"question,omitempty"`
	TimeLeft           int       `json:"timeLeft,omitempty"`
	Revealed           bool      `json:"revealed,omitempty"`
	Selected           *int      `json:"selectedIndex,omitempty"`
	Outcome            *Outcome  `json:"outcome,omitempty"`
	PopularTopics      []string  `json:"popularTopics,omitempty"`
}
