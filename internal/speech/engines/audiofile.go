package engines

import (
	"context"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// AudioFile is used when only pre-recorded audio should be played. It
// reports a single placeholder voice and never speaks.
type AudioFile struct{}

// Kind implements speech.Backend.
func (AudioFile) Kind() speech.Kind { return speech.KindAudioFile }

// Voices implements speech.Backend.
func (AudioFile) Voices(context.Context) ([]string, error) {
	return []string{"None#AudioFileOnly"}, nil
}

// Say implements speech.Backend.
func (AudioFile) Say(context.Context, string, string) error {
	return nil
}
