package memory

import (
	"testing"

	"trivia-duel/internal/app"
)

func TestGameStoreLifecycle(t *testing.T) {
	provider := NewStaticProvider(nil)
	store := NewGameStore(provider, app.TimerScheduler{}, 1)

	game := store.GetOrCreate("g1")
	if game == nil {
		t.Fatalf("expected game")
	}
	if again := store.GetOrCreate("g1"); again != game {
		t.Fatalf("expected the same session on repeat GetOrCreate")
	}
	if _, ok := store.Get("g1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfEmpty("g1")
	if _, ok := store.Get("g1"); ok {
		t.Fatalf("expected session removed when unwatched")
	}
}

func TestGameStoreKeepsWatchedSessions(t *testing.T) {
	store := NewGameStore(NewStaticProvider(nil), app.TimerScheduler{}, 1)

	game := store.GetOrCreate("g1")
	_, cancel := game.Subscribe()
	defer cancel()

	store.DeleteIfEmpty("g1")
	if _, ok := store.Get("g1"); !ok {
		t.Fatalf("watched session must not be dropped")
	}
}
