package app

import (
	"context"

	"trivia-duel/internal/domain"
)

// QuestionProvider generates an ordered batch of trivia questions for a
// topic. Implementations must either return exactly count valid questions or
// an error wrapping domain.ErrGenerationFailed.
type QuestionProvider interface {
	Generate(ctx context.Context, topic string, count int) ([]domain.Question, error)
}

// GameStore abstracts how game sessions are kept (in-memory today).
type GameStore interface {
	GetOrCreate(gameID string) *Game
	Get(gameID string) (*Game, bool)
	DeleteIfEmpty(gameID string)
}

// GameService contains the user-facing game use cases, keyed by session ID.
type GameService struct {
	games GameStore
}

func NewGameService(store GameStore) *GameService {
	return &GameService{games: store}
}

// Join opens (or re-opens) a game session and returns its current state.
func (s *GameService) Join(_ context.Context, gameID string) domain.Snapshot {
	return s.games.GetOrCreate(gameID).Snapshot()
}

// StartMatch handles the start intent: both names, a topic, and a fresh
// question batch from the provider.
func (s *GameService) StartMatch(ctx context.Context, gameID, name1, name2, topic string) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	return game.Start(ctx, name1, name2, topic)
}

// SelectOption handles the answer intent for the current question.
func (s *GameService) SelectOption(_ context.Context, gameID string, index int) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	return game.Select(index)
}

// Restart handles the restart intent: same players and topic, new questions.
func (s *GameService) Restart(ctx context.Context, gameID string) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	return game.Restart(ctx)
}

// GoHome handles the home intent, resetting the session to SETUP.
func (s *GameService) GoHome(_ context.Context, gameID string) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	game.Home()
	return nil
}

// Subscribe returns a channel that receives state snapshots for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.Snapshot, func(), error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := game.Subscribe()
	return ch, cancel, nil
}

// Leave drops the session once the last watcher is gone.
func (s *GameService) Leave(_ context.Context, gameID string) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return
	}
	if game.IsEmpty() {
		s.games.DeleteIfEmpty(gameID)
	}
}
