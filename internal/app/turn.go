package app

import (
	"time"

	"trivia-duel/internal/domain"
)

// TurnController sequences a single question: it runs the countdown, accepts
// at most one selection, and delivers exactly one answered event after the
// reveal delay. Exactly one of timeout or user selection wins a question;
// whichever lands second is discarded.
//
// The controller performs no locking of its own. The owner serializes every
// call, including the deferred work the controller arms on the scheduler,
// which is routed back through the exec func the owner supplies.
type TurnController struct {
	sched      Scheduler
	exec       func(func())
	onAnswered func(correct bool)

	// serial changes on every Present/Clear; tasks armed for an older
	// serial find it stale and drop themselves.
	serial       int
	question     *domain.Question
	timeLeft     int
	selected     *int
	revealed     bool
	cancelTick   func()
	cancelReveal func()
}

// NewTurnController wires a controller to its owner: exec serializes deferred
// scheduler work with the owner's other events, and onAnswered receives the
// single per-question outcome (already inside exec).
func NewTurnController(sched Scheduler, exec func(func()), onAnswered func(correct bool)) *TurnController {
	return &TurnController{sched: sched, exec: exec, onAnswered: onAnswered}
}

// Present unconditionally resets the controller for a new question: prior
// selection cleared, countdown restarted, any pending timer revoked.
func (c *TurnController) Present(q domain.Question) {
	c.stopTimers()
	c.serial++
	question := q
	c.question = &question
	c.timeLeft = domain.QuestionSeconds
	c.selected = nil
	c.revealed = false
	c.armTick()
}

// Clear stops the controller when no question is current (finish or home).
func (c *TurnController) Clear() {
	c.stopTimers()
	c.serial++
	c.question = nil
	c.timeLeft = 0
	c.selected = nil
	c.revealed = false
}

// Select records a user's option choice. While revealed, further selections
// are no-ops; the first choice per question is the only one counted.
func (c *TurnController) Select(index int) {
	c.choose(index)
}

// TimeLeft reports the remaining whole seconds for the current question.
func (c *TurnController) TimeLeft() int { return c.timeLeft }

// Revealed reports whether the current question's outcome is on screen.
func (c *TurnController) Revealed() bool { return c.revealed }

// Selected returns the counted option index, nil before any choice lands.
func (c *TurnController) Selected() *int { return c.selected }

func (c *TurnController) stopTimers() {
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
	if c.cancelReveal != nil {
		c.cancelReveal()
		c.cancelReveal = nil
	}
}

func (c *TurnController) armTick() {
	serial := c.serial
	c.cancelTick = c.sched.Schedule(time.Second, func() {
		c.exec(func() { c.tick(serial) })
	})
}

func (c *TurnController) tick(serial int) {
	if serial != c.serial || c.revealed || c.question == nil {
		return
	}
	c.timeLeft--
	if c.timeLeft <= 0 {
		c.choose(domain.TimeoutOption)
		return
	}
	c.armTick()
}

func (c *TurnController) choose(index int) {
	if c.question == nil || c.revealed {
		return
	}
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
	selected := index
	c.selected = &selected
	c.revealed = true

	correct := index == c.question.CorrectIndex
	serial := c.serial
	c.cancelReveal = c.sched.Schedule(domain.RevealDelay, func() {
		c.exec(func() { c.deliver(serial, correct) })
	})
}

func (c *TurnController) deliver(serial int, correct bool) {
	if serial != c.serial || c.question == nil {
		return
	}
	c.onAnswered(correct)
}
