package subover

import (
	"fmt"
	"os"
	"sync"

	"github.com/gogpu/subover/ass"
)

// Track is a loaded, engine-ready subtitle document plus its computed
// total duration. It is immutable once built and replaced wholesale,
// never mutated in place.
type Track struct {
	handle     EngineTrack
	durationMS int64
}

// Duration returns the track's total duration in milliseconds: the
// maximum end timestamp across all timed entries, 0 when there are none.
func (t *Track) Duration() int64 { return t.durationMS }

// loadTrack reads and parses a subtitle file and hands the raw bytes to
// the engine for its own track construction. A failure at any step
// produces no Track at all, so the caller's previous track stays intact.
func loadTrack(path string, eng Engine) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadIO, err)
	}

	script, err := ass.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadParse, err)
	}

	handle, err := eng.LoadTrack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadParse, err)
	}

	return &Track{handle: handle, durationMS: script.MaxEnd()}, nil
}

// trackStore holds at most one live Track. A readers-writer lock guards
// the slot: loads take the write lock to install, cheap queries take the
// read lock, and the render path takes the write lock too because
// RenderAt mutates engine cache state even though it conceptually only
// reads the track. Renders and loads are therefore fully serialized —
// subtitle loads are rare and renders are cheap, so the contention is
// negligible.
type trackStore struct {
	mu    sync.RWMutex
	track *Track
}

// install atomically replaces the current track, discarding the old one.
func (s *trackStore) install(t *Track) {
	s.mu.Lock()
	s.track = t
	s.mu.Unlock()
}

// loaded reports whether a track is currently installed.
func (s *trackStore) loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track != nil
}

// duration returns the current track's duration, 0 when none is loaded.
func (s *trackStore) duration() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.track == nil {
		return 0
	}
	return s.track.durationMS
}

// withExclusive runs fn with exclusive access to the current track.
// It returns false, without calling fn, when no track is loaded.
func (s *trackStore) withExclusive(fn func(*Track)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return false
	}
	fn(s.track)
	return true
}
