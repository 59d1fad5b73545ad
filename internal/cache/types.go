package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
	"github.com/dustin/go-humanize"
)

// Common errors for cache operations
var (
	// ErrNotFound is returned when no audio file exists for an ID.
	ErrNotFound = errors.New("audio not found")

	// ErrBusy is returned when a decode for the same ID is already running.
	// Callers drop the request instead of retrying.
	ErrBusy = errors.New("audio load already in progress")

	// ErrDecodeFailure is returned through Pending when a file exists but
	// cannot be decoded. It wraps ErrNotFound so callers can treat both alike.
	ErrDecodeFailure = fmt.Errorf("audio decode failed: %w", ErrNotFound)
)

// Entry is a decoded clip owned by the cache. Entries are never mutated.
type Entry struct {
	ID       string
	Payload  *audio.Payload
	LoadedAt time.Time
}

// Stats is a snapshot of loader counters. Counters only grow; a new loader
// starts from zero.
type Stats struct {
	Language string
	Loaded   int64 // files decoded and cached
	Failed   int64 // missing, empty or undecodable files
	Root     string
	Bytes    int64 // PCM bytes held in memory
}

// String renders the status line shown by the stats command and logged at
// shutdown.
func (s Stats) String() string {
	return fmt.Sprintf("Language: %s, Loaded: %s, Failed: %s, Root: %s, Cached: %s",
		s.Language,
		humanize.Comma(s.Loaded),
		humanize.Comma(s.Failed),
		s.Root,
		humanize.Bytes(uint64(s.Bytes)),
	)
}
