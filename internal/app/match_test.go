package app_test

import (
	"errors"
	"fmt"
	"testing"

	"trivia-duel/internal/app"
	"trivia-duel/internal/domain"
)

func questionBatch(label string, count int) []domain.Question {
	questions := make([]domain.Question, count)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           fmt.Sprintf("%s-q%d", label, i),
			Text:         fmt.Sprintf("Question %d?", i),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: 2,
			Explanation:  "Because C.",
		}
	}
	return questions
}

func seededMatch(t *testing.T, rounds int) *app.Match {
	t.Helper()
	m := app.NewMatch(rounds)
	if err := m.Seed("Alice", "Bob", "History", questionBatch("m", 2*rounds)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestSeedRequiresNamesAndTopic(t *testing.T) {
	m := app.NewMatch(1)
	if err := m.Seed("", "Bob", "History", questionBatch("m", 2)); err != domain.ErrInvalidSetup {
		t.Fatalf("expected invalid setup, got %v", err)
	}
	if err := m.Seed("Alice", "Bob", "   ", questionBatch("m", 2)); err != domain.ErrInvalidSetup {
		t.Fatalf("expected invalid setup for blank topic, got %v", err)
	}
	if m.Status() != domain.StatusSetup {
		t.Fatalf("failed seed must leave match in SETUP, got %s", m.Status())
	}
}

func TestSeedRejectsShortBatch(t *testing.T) {
	m := app.NewMatch(3)
	err := m.Seed("Alice", "Bob", "History", questionBatch("m", 5))
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected generation failure for short batch, got %v", err)
	}
	if m.Status() != domain.StatusSetup {
		t.Fatalf("failed seed must leave match in SETUP, got %s", m.Status())
	}
}

func TestTurnAlternationAndRoundCounting(t *testing.T) {
	const rounds = 5
	m := seededMatch(t, rounds)

	for i := 0; i < 2*rounds; i++ {
		if got, want := m.PlayerIndex(), i%2; got != want {
			t.Fatalf("question %d: player index %d, want %d", i, got, want)
		}
		if got, want := m.Round(), i/2+1; got != want {
			t.Fatalf("question %d: round %d, want %d", i, got, want)
		}
		if _, ok := m.CurrentQuestion(); !ok {
			t.Fatalf("question %d: expected a current question", i)
		}
		if err := m.Answer(false); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if m.Status() != domain.StatusFinished {
		t.Fatalf("expected FINISHED after %d answers, got %s", 2*rounds, m.Status())
	}
}

func TestFinishRequiresExactlyAllAnswers(t *testing.T) {
	const rounds = 5
	m := seededMatch(t, rounds)

	for i := 0; i < 2*rounds-1; i++ {
		if err := m.Answer(true); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if m.Status() != domain.StatusPlaying {
			t.Fatalf("finished early after %d answers", i+1)
		}
	}
	if err := m.Answer(true); err != nil {
		t.Fatalf("final answer: %v", err)
	}
	if m.Status() != domain.StatusFinished {
		t.Fatalf("expected FINISHED, got %s", m.Status())
	}
	if err := m.Answer(true); err != domain.ErrInvalidTransition {
		t.Fatalf("answer after finish: expected invalid transition, got %v", err)
	}
}

func TestScoresTrackCorrectAnswers(t *testing.T) {
	const rounds = 3
	m := seededMatch(t, rounds)

	// Seat 0 answers correctly every turn, seat 1 never does.
	correctBySeat := [2]int{}
	for i := 0; i < 2*rounds; i++ {
		seat := m.PlayerIndex()
		correct := seat == 0
		if correct {
			correctBySeat[seat]++
		}
		if err := m.Answer(correct); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		players := m.Players()
		for s := 0; s < 2; s++ {
			want := domain.PointsPerCorrect * correctBySeat[s]
			if players[s].Score != want {
				t.Fatalf("after answer %d: seat %d score %d, want %d", i, s, players[s].Score, want)
			}
		}
	}
}

func TestOutcomeWinnerAndDraw(t *testing.T) {
	m := seededMatch(t, 1)
	if m.Outcome() != nil {
		t.Fatalf("outcome before finish must be nil")
	}
	_ = m.Answer(true)  // seat 0 scores 100
	_ = m.Answer(false) // seat 1 stays at 0
	outcome := m.Outcome()
	if outcome == nil || outcome.Draw || outcome.Winner == nil {
		t.Fatalf("expected a winner, got %+v", outcome)
	}
	if outcome.Winner.ID != "p1" || outcome.Winner.Score != domain.PointsPerCorrect {
		t.Fatalf("expected p1 winning with %d, got %+v", domain.PointsPerCorrect, outcome.Winner)
	}

	tied := seededMatch(t, 1)
	_ = tied.Answer(true)
	_ = tied.Answer(true)
	outcome = tied.Outcome()
	if outcome == nil || !outcome.Draw || outcome.Winner != nil {
		t.Fatalf("expected a draw, got %+v", outcome)
	}
}

func TestReseedResetsScores(t *testing.T) {
	m := seededMatch(t, 1)
	_ = m.Answer(true)
	_ = m.Answer(true)

	if err := m.Seed("Alice", "Bob", "History", questionBatch("fresh", 2)); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	players := m.Players()
	if players[0].Score != 0 || players[1].Score != 0 {
		t.Fatalf("reseed must zero scores, got %d and %d", players[0].Score, players[1].Score)
	}
	if m.Round() != 1 || m.PlayerIndex() != 0 {
		t.Fatalf("reseed must reset counters, got round=%d player=%d", m.Round(), m.PlayerIndex())
	}
	q, ok := m.CurrentQuestion()
	if !ok || q.ID != "fresh-q0" {
		t.Fatalf("reseed must present the new sequence, got %+v ok=%v", q, ok)
	}
}

func TestHomeResetsEverything(t *testing.T) {
	m := seededMatch(t, 2)
	_ = m.Answer(true)
	m.Home()

	if m.Status() != domain.StatusSetup {
		t.Fatalf("expected SETUP after home, got %s", m.Status())
	}
	if m.Topic() != "" {
		t.Fatalf("expected topic cleared, got %q", m.Topic())
	}
	players := m.Players()
	for i, p := range players {
		if p.Name != domain.DefaultPlayerNames[i] || p.Score != 0 {
			t.Fatalf("seat %d not reset: %+v", i, p)
		}
		if p.Color != domain.PlayerColors[i] {
			t.Fatalf("seat %d lost its color tag: %+v", i, p)
		}
	}
	if _, ok := m.CurrentQuestion(); ok {
		t.Fatalf("expected no current question after home")
	}
}
