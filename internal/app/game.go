package app

import (
	"context"
	"log"
	"strings"
	"sync"

	"trivia-duel/internal/domain"
)

// Game is one hosted match lifecycle: the match state machine, the turn
// controller driving it, and the snapshot subscribers watching it. All state
// mutation runs under a single mutex, so every event handler runs to
// completion before the next is processed.
type Game struct {
	id       string
	provider QuestionProvider
	sched    Scheduler

	mu          sync.Mutex
	match       *Match
	turn        *TurnController
	starting    bool
	subscribers map[chan domain.Snapshot]struct{}
}

// NewGame is exported for stores that need to create game sessions.
func NewGame(id string, provider QuestionProvider, sched Scheduler, rounds int) *Game {
	g := &Game{
		id:          id,
		provider:    provider,
		sched:       sched,
		match:       NewMatch(rounds),
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
	g.turn = NewTurnController(sched, g.exec, g.answeredLocked)
	return g
}

// ID returns the session identifier.
func (g *Game) ID() string { return g.id }

// exec serializes deferred turn-controller work with the game's other events
// and broadcasts the resulting state.
func (g *Game) exec(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
	g.broadcastLocked()
}

// Start validates the setup intent, fetches 2×R questions for the topic, and
// seeds the match. On any generation failure the match is left untouched and
// the same intent may simply be retried. Only one generation request is ever
// in flight for a game.
func (g *Game) Start(ctx context.Context, name1, name2, topic string) error {
	g.mu.Lock()
	if g.starting {
		g.mu.Unlock()
		return domain.ErrMatchStarting
	}
	name1, name2, topic = trimSetup(name1, name2, topic)
	if name1 == "" || name2 == "" || topic == "" {
		g.mu.Unlock()
		return domain.ErrInvalidSetup
	}
	g.starting = true
	count := 2 * g.match.TotalRounds()
	g.mu.Unlock()

	// The only suspension point: everything else is event-driven.
	questions, err := g.provider.Generate(ctx, topic, count)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.starting = false
	if err != nil {
		return err
	}
	if err := g.match.Seed(name1, name2, topic, questions); err != nil {
		return err
	}
	if q, ok := g.match.CurrentQuestion(); ok {
		g.turn.Present(q)
	}
	g.broadcastLocked()
	return nil
}

// Restart reseeds the match for the same players and topic: a fresh
// generation request, scores zeroed, counters reset. Never a replay.
func (g *Game) Restart(ctx context.Context) error {
	g.mu.Lock()
	topic := g.match.Topic()
	players := g.match.Players()
	g.mu.Unlock()
	if topic == "" {
		return domain.ErrNoTopic
	}
	return g.Start(ctx, players[0].Name, players[1].Name, topic)
}

// Select relays the current player's option choice (or the timeout sentinel)
// into the turn controller. Selections outside a running match are rejected.
func (g *Game) Select(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.match.Status() != domain.StatusPlaying {
		return domain.ErrInvalidTransition
	}
	g.turn.Select(index)
	g.broadcastLocked()
	return nil
}

// Home unconditionally resets the session to the initial SETUP snapshot.
func (g *Game) Home() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.turn.Clear()
	g.match.Home()
	g.broadcastLocked()
}

// answeredLocked consumes the turn controller's single per-question outcome.
// Runs inside exec, with the game mutex held.
func (g *Game) answeredLocked(correct bool) {
	if err := g.match.Answer(correct); err != nil {
		// Contract violation by the controller; drop the event rather
		// than corrupt the match.
		log.Printf("game %s: dropped answer event: %v", g.id, err)
		return
	}
	if q, ok := g.match.CurrentQuestion(); ok {
		g.turn.Present(q)
	} else {
		g.turn.Clear()
	}
}

// Snapshot returns the current observable state.
func (g *Game) Snapshot() domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe returns a channel receiving state snapshots, starting with the
// current one. The caller must invoke cancel to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	initial := g.snapshotLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// IsEmpty reports whether nobody is watching the session.
func (g *Game) IsEmpty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers) == 0
}

func (g *Game) broadcastLocked() {
	snap := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow client
			// never blocks the game loop.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (g *Game) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Status:             g.match.Status(),
		Topic:              g.match.Topic(),
		Round:              g.match.Round(),
		TotalRounds:        g.match.TotalRounds(),
		CurrentPlayerIndex: g.match.PlayerIndex(),
		Players:            g.match.Players(),
		Outcome:            g.match.Outcome(),
	}
	if snap.Status == domain.StatusSetup {
		snap.PopularTopics = domain.PopularTopics
	}
	if q, ok := g.match.CurrentQuestion(); ok {
		question := q
		snap.Question = &question
		snap.TimeLeft = g.turn.TimeLeft()
		snap.Revealed = g.turn.Revealed()
		snap.Selected = g.turn.Selected()
	}
	return snap
}

func trimSetup(name1, name2, topic string) (string, string, string) {
	return strings.TrimSpace(name1), strings.TrimSpace(name2), strings.TrimSpace(topic)
}
