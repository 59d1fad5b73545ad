package dialogue

import (
	"errors"
	"sync"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/cache"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// Index resolves normalized text to a dialogue ID.
type Index interface {
	Resolve(text string) (string, error)
}

// AudioSource loads pre-recorded clips by dialogue ID.
type AudioSource interface {
	Load(id string) (*cache.Pending, error)
}

// Playback plays decoded clips.
type Playback interface {
	Play(p *audio.Payload, delay time.Duration) error
	IsPlaying() bool
	Stop()
}

// Speech is the synthesized-voice fallback.
type Speech interface {
	Speak(text string, role speech.Role, delay time.Duration, dialogueID string)
	Stop()
	IsSpeaking() bool
}

// VoiceActed reports whether the game already voices a line.
type VoiceActed interface {
	IsVoiceActed(id string) bool
}

// LanguageFactory builds the language-bound components.
type LanguageFactory func(language string) (AudioSource, Index)

// Services owns the components shared by every dialogue line. The
// language-bound pair (audio source and index) is swapped as a unit by
// SwitchLanguage; the rest lives for the whole process.
type Services struct {
	Player     Playback
	Speech     Speech
	VoiceActed VoiceActed

	factory LanguageFactory

	mu       sync.RWMutex
	language string
	audio    AudioSource
	index    Index
}

// NewServices builds the language-bound components for language with
// factory. voiceActed may be nil.
func NewServices(language string, factory LanguageFactory, player Playback, speech Speech, voiceActed VoiceActed) (*Services, error) {
	if factory == nil || player == nil || speech == nil {
		return nil, errors.New("dialogue services need a factory, a player and a speech engine")
	}

	s := &Services{
		Player:     player,
		Speech:     speech,
		VoiceActed: voiceActed,
		factory:    factory,
	}
	s.language = language
	s.audio, s.index = factory(language)
	return s, nil
}

// Language returns the current language code.
func (s *Services) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SwitchLanguage rebuilds the audio source and index for language. Cache
// statistics start over. Switching to the current language is a no-op.
func (s *Services) SwitchLanguage(language string) bool {
	s.mu.RLock()
	same := language == s.language
	s.mu.RUnlock()
	if same || language == "" {
		return false
	}

	src, index := s.factory(language)

	s.mu.Lock()
	old := s.audio
	s.language, s.audio, s.index = language, src, index
	s.mu.Unlock()

	if c, ok := old.(interface{ Close() }); ok {
		c.Close()
	}
	return true
}

// Stats returns the audio cache statistics when the source keeps them.
func (s *Services) Stats() (cache.Stats, bool) {
	src, _ := s.snapshot()
	st, ok := src.(interface{ Stats() cache.Stats })
	if !ok {
		return cache.Stats{}, false
	}
	return st.Stats(), true
}

// Index returns the current localization index.
func (s *Services) Index() Index {
	_, index := s.snapshot()
	return index
}

func (s *Services) snapshot() (AudioSource, Index) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.audio, s.index
}

func (s *Services) isVoiceActed(id string) bool {
	return s.VoiceActed != nil && id != "" && s.VoiceActed.IsVoiceActed(id)
}
