package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/cache"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/dialogue"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/localization"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech/engines"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/voiceacted"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// app holds the wired components for the commands that resolve lines.
type app struct {
	settings config.Settings
	player   *audio.Player
	synth    *speech.Synthesizer
	services *dialogue.Services
	resolver *dialogue.Resolver
}

func loadSettings() (config.Settings, error) {
	s, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func newLoader(s config.Settings, language string) *cache.Loader {
	opts := []cache.Option{cache.WithLogger(log.Default().With("component", "cache"))}
	if len(s.Audio.Extensions) > 0 {
		opts = append(opts, cache.WithExtensions(s.Audio.Extensions...))
	}
	return cache.NewLoader(s.AudioRoot(), language, opts...)
}

func newIndex(s config.Settings, language string) *localization.Index {
	return localization.New(
		localization.FileSource(s.GameData, language),
		localization.WithLogger(log.Default().With("component", "localization")),
	)
}

func roster(s config.Settings) speech.Roster {
	return speech.Roster{
		Narrator:    s.Voices.Narrator,
		Female:      s.Voices.Female,
		Male:        s.Voices.Male,
		Protagonist: s.Voices.Protagonist,
		Custom:      s.Voices.Custom,
	}
}

func policy(s config.Settings) dialogue.Policy {
	return dialogue.Policy{
		AutoPlay:         s.AutoPlay,
		IgnoreVoiceActed: s.AutoPlayIgnoreVoice,
		PlaybackDelay:    s.PlaybackDelay,
		SpeechDelay:      s.SpeechDelay,
	}
}

// newSynthesizer selects the speech backend once and enumerates its voices.
// A missing or silent engine disables synthesis with a single warning.
func newSynthesizer(ctx context.Context, s config.Settings) *speech.Synthesizer {
	logger := log.Default().With("component", "speech")
	opts := []speech.Option{speech.WithLogger(logger), speech.WithRateLimit(s.Speech.RequestsPerSecond)}

	backend, err := engines.Select(speech.Kind(s.Speech.Engine), runtime.GOOS)
	if err != nil {
		logger.Warn("Speech synthesis disabled", "engine", s.Speech.Engine, "err", err)
		backend = engines.AudioFile{}
	}

	synth := speech.New(backend, roster(s), opts...)
	if err := synth.Refresh(ctx); err != nil {
		if !errors.Is(err, speech.ErrEngineUnavailable) {
			logger.Error("Could not enumerate voices", "err", err)
		}
		logger.Warn("Speech synthesis disabled", "engine", backend.Kind(), "err", err)
		synth = speech.New(engines.AudioFile{}, roster(s), opts...)
		_ = synth.Refresh(ctx)
	}
	return synth
}

func loadSoundPack(s config.Settings) (*voiceacted.ManifestPack, error) {
	if s.SoundPack == "" {
		return nil, nil
	}
	pack, err := voiceacted.LoadManifest(s.SoundPack)
	if err != nil {
		return nil, fmt.Errorf("unable to load sound pack: %w", err)
	}
	return pack, nil
}

// newApp wires every component. Voice enumeration and the sound pack are
// loaded concurrently.
func newApp(ctx context.Context, s config.Settings) (*app, error) {
	player, err := audio.NewPlayer(audio.Config{
		SampleRate: s.Audio.SampleRate,
		Channels:   s.Audio.Channels,
		BufferSize: 100 * time.Millisecond,
		Interrupt:  s.InterruptPlaybackOnPlay,
		Logger:     log.Default().With("component", "audio"),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open audio output: %w", err)
	}

	a := &app{settings: s, player: player}
	factory := func(language string) (dialogue.AudioSource, dialogue.Index) {
		return newLoader(s, language), newIndex(s, language)
	}

	var pack *voiceacted.ManifestPack
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.synth = newSynthesizer(gctx, s)
		return nil
	})
	g.Go(func() error {
		var err error
		pack, err = loadSoundPack(s)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = player.Close()
		return nil, err
	}

	// The localization index is built by the first line that needs it.
	a.services, err = dialogue.NewServices(s.Language, factory, player, a.synth, nil)
	if err != nil {
		_ = player.Close()
		return nil, err
	}
	if pack != nil {
		a.services.VoiceActed = voiceacted.New(pack)
		log.Info("Sound pack loaded", "path", s.SoundPack, "lines", pack.Len())
	}

	a.resolver = dialogue.NewResolver(a.services, policy(s),
		dialogue.WithLogger(log.Default().With("component", "dialogue")))
	log.Info("Ready",
		"language", s.Language,
		"engine", a.synth.Kind(),
		"voices", len(a.synth.Voices()),
		"auto_play", s.AutoPlay)
	return a, nil
}

// apply pushes reloaded settings into the running components.
func (a *app) apply(s config.Settings) {
	a.resolver.SetPolicy(policy(s))
	a.player.SetInterrupt(s.InterruptPlaybackOnPlay)
	a.synth.SetRoster(roster(s))
	if a.services.SwitchLanguage(s.Language) {
		log.Info("Language switched", "language", s.Language)
	}
	a.settings = s
}

// idle reports whether nothing is playing or being spoken.
func (a *app) idle() bool {
	return !a.player.IsPlaying() && !a.synth.IsSpeaking()
}

// drain waits for scheduled work and active output to finish. The player
// does not report clips that are scheduled but not started, so the
// playback delay is waited out first.
func (a *app) drain(ctx context.Context) {
	a.resolver.Wait()
	select {
	case <-ctx.Done():
		return
	case <-time.After(a.resolver.Policy().PlaybackDelay + 50*time.Millisecond):
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for !a.idle() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) close() {
	a.resolver.Stop()
	a.resolver.Wait()
	a.synth.Wait()
	if err := a.player.Close(); err != nil {
		log.Warn("Could not close audio output", "err", err)
	}
}
