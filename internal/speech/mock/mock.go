// Package mock provides a mock speech backend for testing.
package mock

import (
	"context"
	"sync"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// Utterance is one recorded Say call.
type Utterance struct {
	Text  string
	Voice string
}

// Engine implements speech.Backend without producing sound.
type Engine struct {
	mu        sync.Mutex
	voices    []string
	voicesErr error
	sayErr    error
	block     chan struct{}
	spoken    []Utterance
	cancelled int
}

// New creates a mock engine reporting the given raw voices.
func New(voices ...string) *Engine {
	return &Engine{voices: voices}
}

// Kind implements speech.Backend.
func (e *Engine) Kind() speech.Kind { return speech.KindMock }

// Voices implements speech.Backend.
func (e *Engine) Voices(context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.voicesErr != nil {
		return nil, e.voicesErr
	}
	return append([]string(nil), e.voices...), nil
}

// Say records the utterance. When blocking is enabled it waits for Release
// or for ctx to be cancelled.
func (e *Engine) Say(ctx context.Context, text, voice string) error {
	e.mu.Lock()
	e.spoken = append(e.spoken, Utterance{Text: text, Voice: voice})
	block, err := e.block, e.sayErr
	e.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			e.mu.Lock()
			e.cancelled++
			e.mu.Unlock()
			return ctx.Err()
		}
	}
	return err
}

// SetVoicesError makes Voices fail.
func (e *Engine) SetVoicesError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voicesErr = err
}

// SetSayError makes Say fail after recording.
func (e *Engine) SetSayError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sayErr = err
}

// Block makes subsequent Say calls wait until Release.
func (e *Engine) Block() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.block = make(chan struct{})
}

// Release unblocks waiting Say calls.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.block != nil {
		close(e.block)
		e.block = nil
	}
}

// Spoken returns a copy of every recorded utterance.
func (e *Engine) Spoken() []Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Utterance(nil), e.spoken...)
}

// Cancelled returns how many blocked utterances were cancelled.
func (e *Engine) Cancelled() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

var _ speech.Backend = (*Engine)(nil)
