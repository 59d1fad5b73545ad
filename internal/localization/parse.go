package localization

import (
	"strings"

	"github.com/tidwall/gjson"
)

// audioKeySuffix is the extension carried by every localization key.
const audioKeySuffix = ".wav"

// Entry is a single localized line.
type Entry struct {
	ID   string
	Text string
}

// Parse extracts entries from a localization document. Two layouts are
// understood:
//
//	{"<id>.wav": {"Offset": 0, "Text": "..."}, ...}
//	[{"audioFileKey": "<id>.wav", "metadata": {"text": "..."}}, ...]
//
// Records that don't fit either shape are skipped.
func Parse(data []byte) []Entry {
	root := gjson.ParseBytes(data)

	var entries []Entry
	switch {
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if e, ok := entryFromKeyed(key.String(), value); ok {
				entries = append(entries, e)
			}
			return true
		})
	case root.IsArray():
		root.ForEach(func(_, value gjson.Result) bool {
			if e, ok := entryFromRecord(value); ok {
				entries = append(entries, e)
			}
			return true
		})
	}
	return entries
}

func entryFromKeyed(key string, value gjson.Result) (Entry, bool) {
	if !value.IsObject() {
		return Entry{}, false
	}
	text := value.Get("Text")
	if !text.Exists() {
		text = value.Get("text")
	}
	return newEntry(key, text)
}

func entryFromRecord(value gjson.Result) (Entry, bool) {
	if !value.IsObject() {
		return Entry{}, false
	}
	return newEntry(value.Get("audioFileKey").String(), value.Get("metadata.text"))
}

func newEntry(key string, text gjson.Result) (Entry, bool) {
	id, ok := idFromKey(key)
	if !ok || text.Type != gjson.String || text.Str == "" {
		return Entry{}, false
	}
	return Entry{ID: id, Text: text.Str}, true
}

// idFromKey turns "ABC-123.wav" into "abc-123".
func idFromKey(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if len(key) <= len(audioKeySuffix) || !strings.EqualFold(key[len(key)-len(audioKeySuffix):], audioKeySuffix) {
		return "", false
	}
	return strings.ToLower(key[:len(key)-len(audioKeySuffix)]), true
}
