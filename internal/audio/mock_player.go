package audio

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Request is one recorded Play call.
type Request struct {
	Payload *Payload
	Delay   time.Duration
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay func(Request)
	OnStop func()
}

// MockPlayer records playback requests without producing sound. A played
// clip counts as playing until Stop or Finish is called.
type MockPlayer struct {
	callbacks MockCallbacks

	mu       sync.Mutex
	requests []Request
	playing  bool
	failWith error

	playCount atomic.Int64
	stopCount atomic.Int64
}

// NewMockPlayer creates a mock player with optional callbacks.
func NewMockPlayer(callbacks MockCallbacks) *MockPlayer {
	return &MockPlayer{callbacks: callbacks}
}

// Play records the request.
func (mp *MockPlayer) Play(payload *Payload, delay time.Duration) error {
	mp.mu.Lock()
	if mp.failWith != nil {
		err := mp.failWith
		mp.mu.Unlock()
		return err
	}
	if payload == nil {
		mp.mu.Unlock()
		return errors.New("audio payload is empty")
	}
	req := Request{Payload: payload, Delay: delay}
	mp.requests = append(mp.requests, req)
	mp.playing = true
	mp.mu.Unlock()

	mp.playCount.Add(1)
	if mp.callbacks.OnPlay != nil {
		mp.callbacks.OnPlay(req)
	}
	return nil
}

// IsPlaying reports whether a recorded clip is still considered playing.
func (mp *MockPlayer) IsPlaying() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.playing
}

// Stop marks playback as stopped.
func (mp *MockPlayer) Stop() {
	mp.mu.Lock()
	mp.playing = false
	mp.mu.Unlock()

	mp.stopCount.Add(1)
	if mp.callbacks.OnStop != nil {
		mp.callbacks.OnStop()
	}
}

// Finish simulates the current clip ending on its own.
func (mp *MockPlayer) Finish() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playing = false
}

// SetError makes subsequent Play calls fail with err. Pass nil to reset.
func (mp *MockPlayer) SetError(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.failWith = err
}

// Requests returns a copy of every recorded request.
func (mp *MockPlayer) Requests() []Request {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([]Request(nil), mp.requests...)
}

// GetMetrics returns call counters for testing.
func (mp *MockPlayer) GetMetrics() MockPlayerMetrics {
	return MockPlayerMetrics{
		PlayCount: mp.playCount.Load(),
		StopCount: mp.stopCount.Load(),
	}
}

// MockPlayerMetrics contains playback metrics for testing.
type MockPlayerMetrics struct {
	PlayCount int64
	StopCount int64
}
