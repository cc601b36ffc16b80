package flow

import (
	"sync"
	"time"
)

// StepTimer fires a callback after a configurable duration unless stopped.
// It drives flow-step expiry notifications. Safe for concurrent use.
type StepTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewStepTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: Returns a running StepTimer; onFire will be called unless
// Stop is called first.
func NewStepTimer(duration time.Duration, onFire func()) *StepTimer {
	st := &StepTimer{}
	st.timer = time.AfterFunc(duration, func() {
		st.mu.Lock()
		stopped := st.stopped
		st.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return st
}

// Reset cancels the current timer and starts a new one with the provided
// duration and callback.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called after duration from now unless Stop
// is called first.
func (st *StepTimer) Reset(duration time.Duration, onFire func()) {
	st.mu.Lock()
	st.stopped = false
	st.timer.Stop()
	st.mu.Unlock()

	newTimer := time.AfterFunc(duration, func() {
		st.mu.Lock()
		s := st.stopped
		st.mu.Unlock()
		if !s {
			onFire()
		}
	})

	st.mu.Lock()
	st.timer = newTimer
	st.mu.Unlock()
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (st *StepTimer) Stop() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stopped = true
	st.timer.Stop()
}
