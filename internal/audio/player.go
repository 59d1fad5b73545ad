package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// ErrPlayerClosed is returned by Play after Close.
var ErrPlayerClosed = errors.New("player is closed")

// stream is one clip being rendered by the output device.
type stream interface {
	Play()
	IsPlaying() bool
	Close() error
}

// device creates streams in a fixed output format.
type device interface {
	Format() Format
	NewStream(r io.Reader) stream
}

// Config contains configuration for the audio player.
type Config struct {
	SampleRate int // 44100 or 48000 Hz
	Channels   int // 1 = mono, 2 = stereo
	BufferSize time.Duration

	// Interrupt stops whatever is playing when a new clip starts.
	Interrupt bool

	Logger *log.Logger
}

// DefaultConfig returns the default player configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   2,
		BufferSize: 100 * time.Millisecond,
		Interrupt:  true,
	}
}

// Validate checks the output format.
func (c Config) Validate() error {
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", c.Channels)
	}
	if c.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	return nil
}

// Player plays payloads on the system output. Clips may overlap unless
// interrupt mode is on. Delayed starts are scheduled with timers and are
// cancelled by Stop.
type Player struct {
	dev    device
	logger *log.Logger

	interrupt atomic.Bool
	closed    atomic.Bool

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	active map[*activeStream]struct{}
}

// activeStream keeps the converted PCM alive while the device reads it.
type activeStream struct {
	id     string
	data   []byte
	stream stream
}

// NewPlayer opens the output device. It blocks until the device is ready.
func NewPlayer(cfg Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dev, err := newOtoDevice(cfg)
	if err != nil {
		return nil, err
	}
	return newPlayer(dev, cfg), nil
}

func newPlayer(dev device, cfg Config) *Player {
	p := &Player{
		dev:    dev,
		logger: cfg.Logger,
		timers: make(map[*time.Timer]struct{}),
		active: make(map[*activeStream]struct{}),
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	p.interrupt.Store(cfg.Interrupt)
	return p
}

// SetInterrupt changes the interrupt policy for subsequent starts.
func (p *Player) SetInterrupt(v bool) {
	p.interrupt.Store(v)
}

// Play starts payload after delay. A delay <= 0 starts it before returning;
// otherwise Play returns at once and the clip starts later unless Stop is
// called first.
func (p *Player) Play(payload *Payload, delay time.Duration) error {
	if p.closed.Load() {
		return ErrPlayerClosed
	}
	if payload == nil || len(payload.Data) == 0 {
		return errors.New("audio payload is empty")
	}

	if delay <= 0 {
		return p.start(payload)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		p.mu.Lock()
		_, scheduled := p.timers[t]
		delete(p.timers, t)
		p.mu.Unlock()
		if !scheduled {
			return
		}

		if err := p.start(payload); err != nil {
			p.logger.Warn("Delayed playback failed", "id", payload.ID, "error", err)
		}
	})
	p.timers[t] = struct{}{}
	return nil
}

func (p *Player) start(payload *Payload) error {
	data := Convert(payload, p.dev.Format())
	if len(data) == 0 {
		return fmt.Errorf("payload %s converts to no frames", payload.ID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return ErrPlayerClosed
	}

	p.pruneLocked()
	if p.interrupt.Load() && len(p.active) > 0 {
		p.closeStreamsLocked()
	}

	as := &activeStream{id: payload.ID, data: data}
	as.stream = p.dev.NewStream(bytes.NewReader(as.data))
	if as.stream == nil {
		return errors.New("failed to create output stream")
	}
	p.active[as] = struct{}{}
	as.stream.Play()

	p.logger.Debug("Playing audio", "id", payload.ID, "duration", payload.Duration(), "format", payload.Format)
	return nil
}

// IsPlaying reports whether any clip is being rendered. Scheduled clips that
// have not started yet do not count.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked()
	return len(p.active) > 0
}

// Stop cancels scheduled starts and closes every active stream. It is a no-op
// when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for t := range p.timers {
		t.Stop()
		delete(p.timers, t)
	}
	p.closeStreamsLocked()
}

// Close stops playback and rejects further requests.
func (p *Player) Close() error {
	p.closed.Store(true)
	p.Stop()
	return nil
}

// pruneLocked drops streams that finished on their own.
func (p *Player) pruneLocked() {
	for as := range p.active {
		if !as.stream.IsPlaying() {
			_ = as.stream.Close()
			delete(p.active, as)
		}
	}
}

func (p *Player) closeStreamsLocked() {
	for as := range p.active {
		if err := as.stream.Close(); err != nil {
			p.logger.Debug("Closing output stream", "id", as.id, "error", err)
		}
		delete(p.active, as)
	}
}

// otoDevice is the oto context. oto allows a single context per process.
type otoDevice struct {
	ctx    *oto.Context
	format Format
}

func newOtoDevice(cfg Config) (*otoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   cfg.BufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	return &otoDevice{
		ctx:    ctx,
		format: Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels},
	}, nil
}

func (d *otoDevice) Format() Format { return d.format }

func (d *otoDevice) NewStream(r io.Reader) stream {
	return d.ctx.NewPlayer(r)
}
