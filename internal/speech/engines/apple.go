package engines

import (
	"context"
	"regexp"
	"strings"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// sayVoiceRe matches a `say -v ?` line: name, locale, then the sample text.
var sayVoiceRe = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

// Apple speaks with the macOS say command.
type Apple struct {
	bin    string
	runner Runner
}

// Kind implements speech.Backend.
func (a *Apple) Kind() speech.Kind { return speech.KindApple }

// Voices implements speech.Backend.
func (a *Apple) Voices(ctx context.Context) ([]string, error) {
	ctx, cancel := listContext(ctx)
	defer cancel()

	out, err := a.runner.Run(ctx, "", a.bin, "-v", "?")
	if err != nil {
		return nil, err
	}
	return parseSayVoices(out), nil
}

// Say implements speech.Backend. say reads the text from stdin when no
// message argument is given.
func (a *Apple) Say(ctx context.Context, text, voice string) error {
	var args []string
	if voice != "" {
		args = append(args, "-v", voice)
	}
	_, err := a.runner.Run(ctx, text, a.bin, args...)
	return err
}

func parseSayVoices(out []byte) []string {
	var voices []string
	for _, line := range strings.Split(string(out), "\n") {
		m := sayVoiceRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		voices = append(voices, strings.TrimSpace(m[1])+"#"+m[2])
	}
	return voices
}
