package media

import (
	"context"
	"sync"
)

// PlaybackSlot allows one audio stream at a time. Acquiring the slot cancels
// whatever stream currently holds it.
type PlaybackSlot struct {
	mu      sync.Mutex
	seq     uint64
	entryID int64
	cancel  context.CancelFunc
}

func NewPlaybackSlot() *PlaybackSlot {
	return &PlaybackSlot{}
}

// Acquire stops the current stream and hands the slot to entryID. The
// returned release func frees the slot unless another stream took it since.
func (s *PlaybackSlot) Acquire(parent context.Context, entryID int64) (context.Context, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	s.seq++
	token := s.seq
	s.entryID = entryID
	s.cancel = cancel

	release := func() {
		cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == token {
			s.cancel = nil
			s.entryID = 0
		}
	}
	return ctx, release
}

// Playing returns the entry whose recording holds the slot.
func (s *PlaybackSlot) Playing() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryID, s.cancel != nil
}

// Stop cancels the current stream, if any.
func (s *PlaybackSlot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.entryID = 0
	}
}
