package session

import "sync"

// InputMode is the per-user conversational input state. The modes are
// mutually exclusive: setting one replaces whatever was active.
type InputMode string

const (
	ModeNone          InputMode = "none"
	ModeAwaitingPitch InputMode = "awaiting_pitch"
	ModeAwaitingRate  InputMode = "awaiting_rate"
)

// Tracker holds the input mode per user id. It is a liveness cache,
// not durable state: process restart resets every user to ModeNone.
// Entries for different users are independent; concurrent access is
// safe.
type Tracker struct {
	mu    sync.RWMutex
	modes map[int64]InputMode
}

// NewTracker creates an empty tracker. One instance lives for the
// whole process.
func NewTracker() *Tracker {
	return &Tracker{modes: make(map[int64]InputMode)}
}

// Set replaces the user's mode. ModeNone removes the entry.
func (t *Tracker) Set(userID int64, mode InputMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if mode == ModeNone {
		delete(t.modes, userID)
		return
	}
	t.modes[userID] = mode
}

// Get returns the user's current mode, ModeNone when unknown.
func (t *Tracker) Get(userID int64) InputMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if mode, ok := t.modes[userID]; ok {
		return mode
	}
	return ModeNone
}

// Clear resets the user to ModeNone.
func (t *Tracker) Clear(userID int64) {
	t.Set(userID, ModeNone)
}
