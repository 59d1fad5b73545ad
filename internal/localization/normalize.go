package localization

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NarratorMarker prefixes narrator lines in the game's dialogue view.
const NarratorMarker = "<i><color=#616161>"

var (
	colorOpenRe  = regexp.MustCompile(`<color=#[0-9a-fA-F]{6}>`)
	colorCloseRe = regexp.MustCompile(`</color>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)

	// Same set as unicode.IsSpace, so the collapse agrees with TrimSpace.
	spaceRe = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
)

// Normalize reduces displayed or localized text to the form used as index
// key. Register and Resolve both go through it, so it must stay
// deterministic and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, NarratorMarker, "")
	text = colorOpenRe.ReplaceAllString(text, "")
	text = colorCloseRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	// Composition runs last: stripping tags can join a base letter with a
	// combining mark that used to sit behind the tag.
	return norm.NFC.String(text)
}
