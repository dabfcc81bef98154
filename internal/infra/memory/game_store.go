package memory

import (
	"sync"

	"trivia-duel/internal/app"
)

// GameStore is an in-memory implementation of app.GameStore. New sessions are
// wired to the provider and scheduler the store was built with.
type GameStore struct {
	provider app.QuestionProvider
	sched    app.Scheduler
	rounds   int

	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewGameStore(provider app.QuestionProvider, sched app.Scheduler, rounds int) *GameStore {
	return &GameStore{
		provider: provider,
		sched:    sched,
		rounds:   rounds,
		games:    make(map[string]*app.Game),
	}
}

func (s *GameStore) GetOrCreate(gameID string) *app.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[gameID]; ok {
		return game
	}
	game := app.NewGame(gameID, s.provider, s.sched, s.rounds)
	s.games[gameID] = game
	return game
}

func (s *GameStore) Get(gameID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	return game, ok
}

func (s *GameStore) DeleteIfEmpty(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return
	}
	if game.IsEmpty() {
		delete(s.games, gameID)
	}
}
