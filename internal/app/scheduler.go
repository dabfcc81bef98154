package app

import "time"

// Scheduler runs a function once after a delay and hands back a cancel func.
// Cancelling after the task has fired is a no-op. The turn controller leans on
// this so a stale countdown or reveal task can always be revoked when the
// question changes underneath it.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the production Scheduler, backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
