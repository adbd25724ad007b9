package session

import (
	"sync"
	"testing"
)

func TestTrackerDefaultsToNone(t *testing.T) {
	tracker := NewTracker()

	if mode := tracker.Get(1); mode != ModeNone {
		t.Errorf("Expected ModeNone for unknown user, got %s", mode)
	}
}

func TestTrackerModesAreExclusive(t *testing.T) {
	tracker := NewTracker()

	tracker.Set(1, ModeAwaitingPitch)
	if mode := tracker.Get(1); mode != ModeAwaitingPitch {
		t.Errorf("Expected awaiting_pitch, got %s", mode)
	}

	// A second prompt replaces the first, it never stacks.
	tracker.Set(1, ModeAwaitingRate)
	if mode := tracker.Get(1); mode != ModeAwaitingRate {
		t.Errorf("Expected awaiting_rate after replacement, got %s", mode)
	}
}

func TestTrackerClear(t *testing.T) {
	tracker := NewTracker()

	tracker.Set(1, ModeAwaitingRate)
	tracker.Clear(1)
	if mode := tracker.Get(1); mode != ModeNone {
		t.Errorf("Expected ModeNone after clear, got %s", mode)
	}
}

func TestTrackerUsersAreIndependent(t *testing.T) {
	tracker := NewTracker()

	tracker.Set(1, ModeAwaitingPitch)
	tracker.Set(2, ModeAwaitingRate)
	tracker.Clear(1)

	if mode := tracker.Get(2); mode != ModeAwaitingRate {
		t.Errorf("Expected user 2 untouched, got %s", mode)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			tracker.Set(userID, ModeAwaitingPitch)
			tracker.Get(userID)
			tracker.Clear(userID)
		}(int64(i % 5))
	}
	wg.Wait()
}
