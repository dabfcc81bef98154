package app

import (
	"strings"

	"trivia-duel/internal/domain"
)

// Match is the turn/round state machine for one two-player game. It owns the
// status, the question sequence, round and turn counters, and both players'
// scores. It is not safe for concurrent use; Game serializes all access.
type Match struct {
	status        domain.Status
	topic         string
	rounds        int
	round         int
	playerIndex   int
	questionIndex int
	questions     []domain.Question
	players       [2]domain.Player
}

// NewMatch creates a match in SETUP with default players and no questions.
func NewMatch(rounds int) *Match {
	if rounds <= 0 {
		rounds = domain.DefaultRounds
	}
	m := &Match{rounds: rounds}
	m.reset()
	return m
}

func (m *Match) reset() {
	m.status = domain.StatusSetup
	m.topic = ""
	m.round = 1
	m.playerIndex = 0
	m.questionIndex = 0
	m.questions = nil
	for i := range m.players {
		m.players[i] = domain.Player{
			ID:    playerID(i),
			Name:  domain.DefaultPlayerNames[i],
			Color: domain.PlayerColors[i],
		}
	}
}

func playerID(seat int) string {
	if seat == 0 {
		return "p1"
	}
	return "p2"
}

// Seed moves the match into play with a freshly generated question sequence.
// Names, topic, counters, and scores all change in the same step, so a failed
// generation upstream leaves no trace here.
func (m *Match) Seed(name1, name2, topic string, questions []domain.Question) error {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)
	topic = strings.TrimSpace(topic)
	if name1 == "" || name2 == "" || topic == "" {
		return domain.ErrInvalidSetup
	}
	if err := domain.ValidateBatch(questions, 2*m.rounds); err != nil {
		return err
	}

	m.players[0].Name, m.players[0].Score = name1, 0
	m.players[1].Name, m.players[1].Score = name2, 0
	m.status = domain.StatusPlaying
	m.topic = topic
	m.round = 1
	m.playerIndex = 0
	m.questionIndex = 0
	m.questions = questions
	return nil
}

// Answer is the single mutating transition of a running match: award the
// current player if correct, then hand the next question to the other seat,
// bumping the round when the turn wraps back to seat 0. The match finishes
// when the question sequence is exhausted; counters freeze at their last
// values.
func (m *Match) Answer(correct bool) error {
	if m.status != domain.StatusPlaying || m.questionIndex >= len(m.questions) {
		return domain.ErrInvalidTransition
	}

	if correct {
		m.players[m.playerIndex].Score += domain.PointsPerCorrect
	}

	nextPlayer := (m.playerIndex + 1) % 2
	nextQuestion := m.questionIndex + 1
	if nextQuestion >= len(m.questions) {
		m.status = domain.StatusFinished
		return nil
	}
	if nextPlayer == 0 {
		m.round++
	}
	m.playerIndex = nextPlayer
	m.questionIndex = nextQuestion
	return nil
}

// Home discards the match wholesale: back to SETUP, topic cleared, scores
// zeroed, names reset to the defaults.
func (m *Match) Home() {
	m.reset()
}

// Status reports the current lifecycle state.
func (m *Match) Status() domain.Status { return m.status }

// Topic reports the topic the match was seeded with.
func (m *Match) Topic() string { return m.topic }

// Round reports the 1-indexed current round.
func (m *Match) Round() int { return m.round }

// TotalRounds reports the configured round count R.
func (m *Match) TotalRounds() int { return m.rounds }

// PlayerIndex reports whose turn it is (0 or 1).
func (m *Match) PlayerIndex() int { return m.playerIndex }

// Players returns a copy of both seats.
func (m *Match) Players() [2]domain.Player { return m.players }

// CurrentQuestion returns the question being presented, if the match is
// running.
func (m *Match) CurrentQuestion() (domain.Question, bool) {
	if m.status != domain.StatusPlaying || m.questionIndex >= len(m.questions) {
		return domain.Question{}, false
	}
	return m.questions[m.questionIndex], true
}

// Outcome reports the winner, or a draw on equal scores. Nil until finished.
func (m *Match) Outcome() *domain.Outcome {
	if m.status != domain.StatusFinished {
		return nil
	}
	if m.players[0].Score == m.players[1].Score {
		return &domain.Outcome{Draw: true}
	}
	winner := m.players[0]
	if m.players[1].Score > winner.Score {
		winner = m.players[1]
	}
	return &domain.Outcome{Winner: &winner}
}
