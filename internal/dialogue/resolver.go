package dialogue

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/cache"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/localization"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"
)

// logTextWidth bounds how much of a line's text goes into log records.
const logTextWidth = 50

// Line is one displayed dialogue line.
type Line struct {
	ID         string
	Text       string
	Normalized string
}

// NewLine builds a line from the game's cue key and display text.
func NewLine(id, text string) Line {
	return Line{
		ID:         strings.TrimSpace(id),
		Text:       text,
		Normalized: localization.Normalize(text),
	}
}

// Policy holds the user settings that steer resolution.
type Policy struct {
	AutoPlay         bool
	IgnoreVoiceActed bool
	PlaybackDelay    time.Duration
	SpeechDelay      time.Duration
}

// DefaultPolicy returns the default policy.
func DefaultPolicy() Policy {
	return Policy{
		AutoPlay:      true,
		PlaybackDelay: 100 * time.Millisecond,
		SpeechDelay:   500 * time.Millisecond,
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithTransitionHook registers a function called on every state change of
// every line. It must not block.
func WithTransitionHook(fn func(line string, from, to State)) Option {
	return func(r *Resolver) { r.hook = fn }
}

// Resolver turns dialogue lines into playback or speech.
type Resolver struct {
	svc    *Services
	logger *log.Logger
	hook   func(line string, from, to State)

	mu     sync.Mutex
	policy Policy
	stop   chan struct{}

	// gate orders Stop against a continuation handing its clip to the
	// player, so nothing is scheduled once Stop has returned.
	gate sync.Mutex

	wg sync.WaitGroup
}

// NewResolver creates a resolver over svc.
func NewResolver(svc *Services, policy Policy, opts ...Option) *Resolver {
	r := &Resolver{
		svc:    svc,
		policy: policy,
		logger: log.Default(),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the current policy.
func (r *Resolver) Policy() Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy
}

// SetPolicy replaces the policy for lines that arrive afterwards.
func (r *Resolver) SetPolicy(p Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = p
}

// HandleLine is the entry point for the game's dialogue hook. It returns
// nothing and never panics.
func (r *Resolver) HandleLine(id, text string) {
	r.Resolve(NewLine(id, text))
}

// Resolve handles line and reports what was done. Panics raised by
// collaborators are recovered and reported as OutcomeFailed.
func (r *Resolver) Resolve(line Line) (outcome Outcome) {
	run := r.newRun(line)
	defer func() {
		if v := recover(); v != nil {
			run.logger.Error("Dialogue handling panicked", "panic", v)
			run.to(Idle)
			outcome = OutcomeFailed
		}
	}()

	outcome = r.resolve(run)
	run.logger.Debug("Dialogue handled", "outcome", outcome)
	return outcome
}

// Stop suppresses the playback of clips still being decoded and stops the
// player and the speech engine. Decodes themselves run to completion.
func (r *Resolver) Stop() {
	r.gate.Lock()
	r.mu.Lock()
	close(r.stop)
	r.stop = make(chan struct{})
	r.mu.Unlock()
	r.gate.Unlock()

	r.svc.Player.Stop()
	r.svc.Speech.Stop()
}

// Wait blocks until every pending continuation has finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// run is the state of one line. It is never shared between lines.
type run struct {
	line   Line
	policy Policy
	stop   <-chan struct{}
	state  State
	logger *log.Logger
	hook   func(line string, from, to State)
	corr   string
}

func (r *Resolver) newRun(line Line) *run {
	r.mu.Lock()
	policy, stop := r.policy, r.stop
	r.mu.Unlock()

	corr := uuid.NewString()
	return &run{
		line:   line,
		policy: policy,
		stop:   stop,
		state:  Idle,
		corr:   corr,
		hook:   r.hook,
		logger: r.logger.With("line", corr[:8], "id", line.ID),
	}
}

func (rn *run) to(s State) {
	if rn.state == s {
		return
	}
	from := rn.state
	rn.state = s
	rn.logger.Debug("Dialogue state", "from", from, "to", s)
	if rn.hook != nil {
		rn.hook(rn.corr, from, s)
	}
}

func (r *Resolver) resolve(rn *run) Outcome {
	rn.logger.Info("Dialogue started", "text", truncate.StringWithTail(rn.line.Normalized, logTextWidth, "…"))

	if !rn.policy.AutoPlay {
		rn.logger.Debug("Auto play is disabled")
		return OutcomeSkipped
	}

	rn.to(VoiceActedCheck)
	if !rn.policy.IgnoreVoiceActed && r.svc.isVoiceActed(rn.line.ID) {
		rn.logger.Info("Dialogue is voice acted, stopping speech")
		r.svc.Speech.Stop()
		rn.to(Suppressed)
		rn.to(Idle)
		return OutcomeSuppressed
	}

	rn.to(AudioLookup)
	return r.lookup(rn, rn.line.ID, false)
}

// lookup tries the clip for id. retried is set once the localization index
// has supplied id, so a line resolves through the index at most once.
func (r *Resolver) lookup(rn *run, id string, retried bool) Outcome {
	if id == "" {
		return r.miss(rn, id, retried)
	}

	src, _ := r.svc.snapshot()
	pending, err := src.Load(id)
	switch {
	case errors.Is(err, cache.ErrBusy):
		rn.logger.Info("Audio for line is still loading, dropping", "clip", id)
		rn.to(Idle)
		return OutcomeDropped
	case err != nil:
		rn.logger.Debug("No audio file for line", "clip", id, "error", err)
		return r.miss(rn, id, retried)
	}

	if payload, ok := pending.Ready(); ok {
		return r.play(rn, payload)
	}
	select {
	case <-pending.Done():
		_, err := pending.Result()
		rn.logger.Debug("Audio file unusable", "clip", id, "error", err)
		return r.miss(rn, id, retried)
	default:
	}

	r.await(rn, pending, retried)
	return OutcomePending
}

// miss falls back to the localization index, then to speech.
func (r *Resolver) miss(rn *run, id string, retried bool) Outcome {
	if !retried && rn.line.Normalized != "" {
		_, index := r.svc.snapshot()
		resolved, err := index.Resolve(rn.line.Normalized)
		if err == nil && resolved != id {
			rn.logger.Info("Resolved dialogue ID from text", "clip", resolved)
			return r.lookup(rn, resolved, true)
		}
	}
	return r.speak(rn)
}

// await continues the line once the clip has been decoded, unless Stop is
// called first.
func (r *Resolver) await(rn *run, pending *cache.Pending, retried bool) {
	rn.logger.Debug("Waiting for audio decode", "clip", pending.ID())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if v := recover(); v != nil {
				rn.logger.Error("Dialogue continuation panicked", "panic", v)
				rn.to(Idle)
			}
		}()

		select {
		case <-rn.stop:
			rn.logger.Debug("Playback cancelled before decode finished", "clip", pending.ID())
			rn.to(Idle)
			return
		case <-pending.Done():
		}

		r.gate.Lock()
		defer r.gate.Unlock()

		// Stop may race with completion.
		select {
		case <-rn.stop:
			rn.to(Idle)
			return
		default:
		}

		payload, err := pending.Result()
		if err != nil {
			rn.logger.Warn("Audio decode failed, falling back", "clip", pending.ID(), "error", err)
			outcome := r.miss(rn, pending.ID(), retried)
			rn.logger.Debug("Dialogue handled", "outcome", outcome)
			return
		}
		r.play(rn, payload)
	}()
}

func (r *Resolver) play(rn *run, payload *audio.Payload) Outcome {
	rn.to(Playing)
	r.svc.Speech.Stop()

	if err := r.svc.Player.Play(payload, rn.policy.PlaybackDelay); err != nil {
		rn.logger.Warn("Playback failed, falling back to speech", "clip", payload.ID, "error", err)
		return r.speak(rn)
	}

	rn.logger.Info("Playing audio file", "clip", payload.ID, "duration", payload.Duration())
	rn.to(Idle)
	return OutcomePlaying
}

func (r *Resolver) speak(rn *run) Outcome {
	if rn.line.Normalized == "" {
		rn.logger.Debug("Nothing to speak")
		rn.to(Idle)
		return OutcomeSkipped
	}

	rn.to(TTSFallback)
	rn.logger.Info("Using speech fallback", "delay", rn.policy.SpeechDelay)
	r.svc.Speech.Speak(rn.line.Normalized, speech.Narrator, rn.policy.SpeechDelay, rn.line.ID)
	rn.to(Idle)
	return OutcomeSpoken
}
