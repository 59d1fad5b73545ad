package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Kind names a platform engine.
type Kind string

const (
	KindAuto      Kind = "auto"
	KindWindows   Kind = "windows"
	KindApple     Kind = "apple"
	KindEspeak    Kind = "espeak"
	KindAudioFile Kind = "audiofile"
	KindMock      Kind = "mock"
)

// Backend is a platform TTS engine.
type Backend interface {
	Kind() Kind
	// Voices lists raw engine voices, ideally as "<name>#<language>".
	Voices(ctx context.Context) ([]string, error)
	// Say speaks text with the named voice and returns when speech has
	// finished or ctx is cancelled.
	Say(ctx context.Context, text, voice string) error
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the synthesizer's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// WithRateLimit limits how often utterances may start. A limit <= 0 turns
// throttling off.
func WithRateLimit(perSecond float64) Option {
	return func(s *Synthesizer) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// Synthesizer speaks dialogue lines through a Backend. At most one utterance
// runs at a time; a new Speak cancels the previous one.
type Synthesizer struct {
	backend Backend
	logger  *log.Logger
	limiter *rate.Limiter

	mu       sync.Mutex
	voices   []string
	roster   Roster
	cancel   context.CancelFunc
	seq      uint64
	speaking bool
	lastErr  error

	wg sync.WaitGroup
}

// New creates a synthesizer. Call Refresh before the first Speak to
// enumerate voices and reconcile the roster.
func New(backend Backend, roster Roster, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		backend: backend,
		roster:  roster,
		logger:  log.Default(),
		limiter: rate.NewLimiter(rate.Limit(4), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the backend kind.
func (s *Synthesizer) Kind() Kind { return s.backend.Kind() }

// Refresh enumerates the backend voices, normalizes them and clamps the
// roster. An empty voice list is reported as ErrEngineUnavailable.
func (s *Synthesizer) Refresh(ctx context.Context) error {
	raw, err := s.backend.Voices(ctx)
	if err != nil {
		return NewError(ErrorCodeEngineUnavailable, "listing voices", errors.Join(ErrEngineUnavailable, err))
	}

	voices := NormalizeVoices(raw)
	if len(voices) == 0 {
		return NewError(ErrorCodeNoVoices, "engine reported no voices", ErrEngineUnavailable)
	}

	s.mu.Lock()
	s.voices = voices
	changed := s.roster.Reconcile(len(voices))
	s.mu.Unlock()

	for _, role := range changed {
		s.logger.Info("Voice was out of range, resetting to first voice available", "role", role)
	}
	s.logger.Debug("Voices enumerated", "engine", s.backend.Kind(), "count", len(voices))
	return nil
}

// Voices returns a copy of the normalized voice list.
func (s *Synthesizer) Voices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.voices...)
}

// Roster returns the reconciled roster.
func (s *Synthesizer) Roster() Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster
}

// SetRoster replaces the roster and clamps it against the current voices.
func (s *Synthesizer) SetRoster(r Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.voices) > 0 {
		r.Reconcile(len(s.voices))
	}
	s.roster = r
}

// Speak voices text as role after delay without blocking. Any utterance in
// progress is cancelled first. dialogueID is only used for logging.
func (s *Synthesizer) Speak(text string, role Role, delay time.Duration, dialogueID string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.speaking = true
	voice := s.roster.Voice(role, s.voices)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.finish(seq, cancel)

		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		s.logger.Debug("Speaking", "id", dialogueID, "role", role, "voice", voice)
		if err := s.backend.Say(ctx, text, voice); err != nil && ctx.Err() == nil {
			failure := NewError(ErrorCodeEngineFailure, fmt.Sprintf("%s engine could not speak", s.backend.Kind()), err)
			s.mu.Lock()
			s.lastErr = failure
			s.mu.Unlock()
			s.logger.Warn("Speech failed", "id", dialogueID, "error", failure)
		}
	}()
}

func (s *Synthesizer) finish(seq uint64, cancel context.CancelFunc) {
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.speaking = false
		s.cancel = nil
	}
}

// Stop cancels the current utterance. It is safe to call when idle.
func (s *Synthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.speaking = false
	s.seq++
}

// IsSpeaking reports whether an utterance is scheduled or running.
func (s *Synthesizer) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// LastError returns the most recent engine failure, or nil. Cancelled
// utterances are not failures.
func (s *Synthesizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Wait blocks until every utterance goroutine has returned.
func (s *Synthesizer) Wait() {
	s.wg.Wait()
}
