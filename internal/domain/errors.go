package domain

import "errors"

var (
	// ErrGenerationFailed covers every provider failure: transport errors,
	// unparseable responses, and batches that break the question contract.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrInvalidTransition is returned when answer() is driven outside a
	// running match; a contract violation by the caller.
	ErrInvalidTransition = errors.New("invalid match transition")
	// ErrMatchStarting is returned when a start is requested while a
	// generation request is already in flight.
	ErrMatchStarting = errors.New("match start already in progress")
	// ErrInvalidSetup is returned when player names or topic are empty.
	ErrInvalidSetup = errors.New("player names and topic must not be empty")
	// ErrNoTopic is returned when restart is requested with no prior topic.
	ErrNoTopic = errors.New("no previous topic to restart with")
	// ErrGameNotFound is returned when a game session does not exist.
	ErrGameNotFound = errors.New("game session not found")
)
