package speech

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	voiceSeparator = "#"
	unknownLabel   = "Unknown"
)

// NormalizeVoices turns raw engine voice entries into "<name>#<label>"
// form, stably sorted by label in collation order. Entries without exactly
// one separator or with an empty label get the label "Unknown"; blank
// entries are dropped.
func NormalizeVoices(raw []string) []string {
	voices := make([]string, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(strings.ReplaceAll(v, voiceSeparator, "")) == "" {
			continue
		}
		voices = append(voices, normalizeVoice(v))
	}

	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(voices, func(i, j int) bool {
		return c.CompareString(VoiceLabel(voices[i]), VoiceLabel(voices[j])) < 0
	})
	return voices
}

func normalizeVoice(v string) string {
	parts := strings.Split(v, voiceSeparator)
	if len(parts) != 2 || parts[1] == "" {
		return strings.TrimSpace(strings.ReplaceAll(v, voiceSeparator, "")) + voiceSeparator + unknownLabel
	}
	return v
}

// VoiceName returns the engine voice name of an entry.
func VoiceName(entry string) string {
	name, _, _ := strings.Cut(entry, voiceSeparator)
	return name
}

// VoiceLabel returns the language or label part of an entry.
func VoiceLabel(entry string) string {
	_, label, _ := strings.Cut(entry, voiceSeparator)
	return label
}
