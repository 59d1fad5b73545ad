// Package voiceacted tells whether a dialogue line already has authored
// voice audio in the game's own sound pack.
package voiceacted

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// SoundPack is the game's voice-over catalogue.
type SoundPack interface {
	// Text returns the authored text for id and whether the pack has it.
	Text(id string) (string, bool)
}

// Detector answers voice-acted queries against a sound pack.
type Detector struct {
	pack SoundPack
}

// New creates a detector. A nil pack means nothing is voice acted.
func New(pack SoundPack) *Detector {
	return &Detector{pack: pack}
}

// IsVoiceActed reports whether id has non-blank authored text in the pack.
// Unknown ids and a missing pack report false.
func (d *Detector) IsVoiceActed(id string) bool {
	if d == nil || d.pack == nil || id == "" {
		return false
	}
	text, ok := d.pack.Text(id)
	return ok && strings.TrimSpace(text) != ""
}

// ManifestPack is a sound pack read from a JSON manifest mapping dialogue
// IDs to their authored text:
//
//	{"abc-123": "Hello there", ...}
type ManifestPack struct {
	mu    sync.RWMutex
	texts map[string]string
}

// ParseManifest builds a pack from manifest JSON. Non-string values are
// skipped; IDs are matched case-insensitively.
func ParseManifest(data []byte) (*ManifestPack, error) {
	if len(data) > 0 && !gjson.ValidBytes(data) {
		return nil, errors.New("sound pack manifest is not valid JSON")
	}

	p := &ManifestPack{texts: make(map[string]string)}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			p.texts[strings.ToLower(key.String())] = value.Str
		}
		return true
	})
	return p, nil
}

// LoadManifest reads a manifest file. A missing file yields an empty pack.
func LoadManifest(path string) (*ManifestPack, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ManifestPack{texts: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sound pack manifest: %w", err)
	}

	p, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Text implements SoundPack.
func (p *ManifestPack) Text(id string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	text, ok := p.texts[strings.ToLower(id)]
	return text, ok
}

// Len returns the number of entries.
func (p *ManifestPack) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.texts)
}
