package localization

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
)

// ErrNotFound is returned when no dialogue ID matches the given text.
var ErrNotFound = errors.New("no dialogue matches text")

// Source supplies the raw localization document.
type Source interface {
	Load() ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]byte, error)

// Load implements Source.
func (f SourceFunc) Load() ([]byte, error) { return f() }

// FileSource reads the localization document for language from the game's
// streaming assets: <gameData>/Localization/<language>.json.
func FileSource(gameData, language string) Source {
	path := filepath.Join(gameData, "Localization", language+".json")
	return SourceFunc(func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read localization %s: %w", path, err)
		}
		return data, nil
	})
}

// Index maps normalized dialogue text to dialogue IDs. Distinct lines that
// normalize to the same text collapse to one key; the last registration
// wins.
type Index struct {
	source Source
	logger *log.Logger

	once sync.Once

	mu    sync.RWMutex
	byKey map[string]string // normalized text -> id
	texts map[string]string // id -> original text
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(x *Index) { x.logger = l }
}

// New creates an index backed by source. Nothing is read until the first
// lookup. A nil source yields an index fed only through Register.
func New(source Source, opts ...Option) *Index {
	x := &Index{
		source: source,
		logger: log.Default(),
		byKey:  make(map[string]string),
		texts:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Register maps text to id, overwriting any previous mapping for the same
// normalized text. Empty ids or texts are ignored.
func (x *Index) Register(id, text string) {
	if id == "" || text == "" {
		return
	}
	key := Normalize(text)
	if key == "" {
		return
	}

	x.mu.Lock()
	x.byKey[key] = id
	x.texts[id] = text
	x.mu.Unlock()
}

// Resolve returns the dialogue ID whose localized text matches text after
// normalization.
func (x *Index) Resolve(text string) (string, error) {
	key := Normalize(text)
	if key == "" {
		return "", ErrNotFound
	}
	x.ensureBuilt()

	x.mu.RLock()
	id, ok := x.byKey[key]
	x.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

// Len returns the number of distinct normalized texts.
func (x *Index) Len() int {
	x.ensureBuilt()

	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byKey)
}

// Entries returns every registered line sorted by ID.
func (x *Index) Entries() []Entry {
	x.ensureBuilt()

	x.mu.RLock()
	entries := make([]Entry, 0, len(x.texts))
	for id, text := range x.texts {
		entries = append(entries, Entry{ID: id, Text: text})
	}
	x.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Match is a fuzzy search hit.
type Match struct {
	Entry
	Score int
}

// Search fuzzy-matches query against the normalized text of every entry and
// returns at most limit hits, best first. A limit <= 0 returns all hits.
func (x *Index) Search(query string, limit int) []Match {
	entries := x.Entries()
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = Normalize(e.Text)
	}

	found := fuzzy.Find(query, texts)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{Entry: entries[m.Index], Score: m.Score}
	}
	return matches
}

func (x *Index) ensureBuilt() {
	x.once.Do(x.build)
}

// build loads the source. Failures leave the index empty.
func (x *Index) build() {
	if x.source == nil {
		return
	}

	data, err := x.source.Load()
	if err != nil {
		x.logger.Warn("Localization data unavailable, text matching disabled", "error", err)
		return
	}

	entries := Parse(data)
	for _, e := range entries {
		x.Register(e.ID, e.Text)
	}

	x.logger.Info("Localization index built", "entries", len(entries), "keys", x.size())
}

func (x *Index) size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byKey)
}
