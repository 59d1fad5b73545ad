// Package config reads speechmod settings from viper and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyLanguage                = "language"
	KeyModRoot                 = "mod_root"
	KeyGameData                = "game_data"
	KeySoundPack               = "sound_pack"
	KeyCueFile                 = "cue_file"
	KeyAutoPlay                = "auto_play"
	KeyAutoPlayIgnoreVoice     = "auto_play_ignore_voice_acted"
	KeyInterruptPlaybackOnPlay = "interrupt_playback_on_play"
	KeyPlaybackDelay           = "playback_delay"
	KeySpeechDelay             = "speech_delay"
	KeyVoiceNarrator           = "voices.narrator"
	KeyVoiceFemale             = "voices.female"
	KeyVoiceMale               = "voices.male"
	KeyVoiceProtagonist        = "voices.protagonist"
	KeyVoiceCustom             = "voices.custom"
	KeySpeechEngine            = "speech.engine"
	KeySpeechRate              = "speech.requests_per_second"
	KeyAudioSampleRate         = "audio.sample_rate"
	KeyAudioChannels           = "audio.channels"
	KeyAudioExtensions         = "audio.extensions"
)

// LogFileName is the log written inside the mod root.
const LogFileName = "SpeechMod.log"

// Voices holds the voice index per role and the custom voice name.
type Voices struct {
	Narrator    int
	Female      int
	Male        int
	Protagonist int
	Custom      string
}

// Speech configures the synthesized fallback.
type Speech struct {
	Engine            string
	RequestsPerSecond float64
}

// Audio configures playback and clip lookup.
type Audio struct {
	SampleRate int
	Channels   int
	Extensions []string
}

// Settings is the resolved configuration.
type Settings struct {
	Language  string
	ModRoot   string
	GameData  string
	SoundPack string
	CueFile   string

	AutoPlay                bool
	AutoPlayIgnoreVoice     bool
	InterruptPlaybackOnPlay bool
	PlaybackDelay           time.Duration
	SpeechDelay             time.Duration

	Voices Voices
	Speech Speech
	Audio  Audio
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, modRoot string) {
	v.SetDefault(KeyLanguage, "enGB")
	v.SetDefault(KeyModRoot, modRoot)
	v.SetDefault(KeyGameData, "")
	v.SetDefault(KeySoundPack, "")
	v.SetDefault(KeyCueFile, "")
	v.SetDefault(KeyAutoPlay, true)
	v.SetDefault(KeyAutoPlayIgnoreVoice, false)
	v.SetDefault(KeyInterruptPlaybackOnPlay, true)
	v.SetDefault(KeyPlaybackDelay, "100ms")
	v.SetDefault(KeySpeechDelay, "500ms")
	v.SetDefault(KeyVoiceNarrator, 0)
	v.SetDefault(KeyVoiceFemale, 0)
	v.SetDefault(KeyVoiceMale, 0)
	v.SetDefault(KeyVoiceProtagonist, 0)
	v.SetDefault(KeyVoiceCustom, "")
	v.SetDefault(KeySpeechEngine, "auto")
	v.SetDefault(KeySpeechRate, 4.0)
	v.SetDefault(KeyAudioSampleRate, 44100)
	v.SetDefault(KeyAudioChannels, 2)
	v.SetDefault(KeyAudioExtensions, []string{".wav", ".wav.zst"})
}

// Load reads settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Language:                strings.TrimSpace(v.GetString(KeyLanguage)),
		AutoPlay:                v.GetBool(KeyAutoPlay),
		AutoPlayIgnoreVoice:     v.GetBool(KeyAutoPlayIgnoreVoice),
		InterruptPlaybackOnPlay: v.GetBool(KeyInterruptPlaybackOnPlay),
		PlaybackDelay:           v.GetDuration(KeyPlaybackDelay),
		SpeechDelay:             v.GetDuration(KeySpeechDelay),
		Voices: Voices{
			Narrator:    v.GetInt(KeyVoiceNarrator),
			Female:      v.GetInt(KeyVoiceFemale),
			Male:        v.GetInt(KeyVoiceMale),
			Protagonist: v.GetInt(KeyVoiceProtagonist),
			Custom:      strings.TrimSpace(v.GetString(KeyVoiceCustom)),
		},
		Speech: Speech{
			Engine:            strings.ToLower(strings.TrimSpace(v.GetString(KeySpeechEngine))),
			RequestsPerSecond: v.GetFloat64(KeySpeechRate),
		},
		Audio: Audio{
			SampleRate: v.GetInt(KeyAudioSampleRate),
			Channels:   v.GetInt(KeyAudioChannels),
			Extensions: v.GetStringSlice(KeyAudioExtensions),
		},
	}

	var err error
	for _, p := range []struct {
		key string
		dst *string
	}{
		{KeyModRoot, &s.ModRoot},
		{KeyGameData, &s.GameData},
		{KeySoundPack, &s.SoundPack},
		{KeyCueFile, &s.CueFile},
	} {
		if *p.dst, err = ExpandPath(v.GetString(p.key)); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", p.key, err)
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the resolver cannot work with.
// Voice indices are not checked here; they are clamped once voices are
// known.
func (s Settings) Validate() error {
	var errs []error
	if s.Language == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}
	if s.ModRoot == "" {
		errs = append(errs, errors.New("mod_root must not be empty"))
	}
	if s.PlaybackDelay < 0 {
		errs = append(errs, fmt.Errorf("playback_delay must not be negative, got %s", s.PlaybackDelay))
	}
	if s.SpeechDelay < 0 {
		errs = append(errs, fmt.Errorf("speech_delay must not be negative, got %s", s.SpeechDelay))
	}
	switch s.Speech.Engine {
	case "auto", "windows", "apple", "espeak", "audiofile":
	default:
		errs = append(errs, fmt.Errorf("speech.engine must be one of auto, windows, apple, espeak or audiofile, got %q", s.Speech.Engine))
	}
	if s.Speech.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("speech.requests_per_second must not be negative, got %g", s.Speech.RequestsPerSecond))
	}
	if s.Audio.SampleRate != 44100 && s.Audio.SampleRate != 48000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be 44100 or 48000, got %d", s.Audio.SampleRate))
	}
	if s.Audio.Channels != 1 && s.Audio.Channels != 2 {
		errs = append(errs, fmt.Errorf("audio.channels must be 1 or 2, got %d", s.Audio.Channels))
	}
	for _, ext := range s.Audio.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("audio.extensions entry %q must start with a dot", ext))
		}
	}
	return errors.Join(errs...)
}

// AudioRoot is the directory holding one folder of clips per language.
func (s Settings) AudioRoot() string {
	return filepath.Join(s.ModRoot, "Localization", "Audio")
}

// LogPath is the log file inside the mod root.
func (s Settings) LogPath() string {
	return filepath.Join(s.ModRoot, LogFileName)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(os.ExpandEnv(expanded)), nil
}

// Env is the process environment read at startup.
type Env struct {
	LogLevel   string `env:"SPEECHMOD_LOG_LEVEL" envDefault:"info"`
	ConfigHome string `env:"SPEECHMOD_CONFIG_HOME"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("error parsing environment: %w", err)
	}
	return e, nil
}
