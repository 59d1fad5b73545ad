package engines

import (
	"context"
	"strings"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// Espeak speaks with espeak-ng, or classic espeak when that is what is
// installed.
type Espeak struct {
	bin    string
	runner Runner
}

// Kind implements speech.Backend.
func (e *Espeak) Kind() speech.Kind { return speech.KindEspeak }

// Voices implements speech.Backend.
func (e *Espeak) Voices(ctx context.Context) ([]string, error) {
	ctx, cancel := listContext(ctx)
	defer cancel()

	out, err := e.runner.Run(ctx, "", e.bin, "--voices")
	if err != nil {
		return nil, err
	}
	return parseEspeakVoices(out), nil
}

// Say implements speech.Backend.
func (e *Espeak) Say(ctx context.Context, text, voice string) error {
	args := []string{"--stdin"}
	if voice != "" {
		args = append([]string{"-v", voice}, args...)
	}
	_, err := e.runner.Run(ctx, text, e.bin, args...)
	return err
}

// parseEspeakVoices reads the `--voices` table:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en
func parseEspeakVoices(out []byte) []string {
	var voices []string
	for i, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if i == 0 && len(fields) > 0 && fields[0] == "Pty" {
			continue
		}
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, fields[3]+"#"+fields[1])
	}
	return voices
}
