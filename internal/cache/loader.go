package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// zstdExt marks compressed voice files.
const zstdExt = ".zst"

// DefaultExtensions are tried in order when locating a clip.
var DefaultExtensions = []string{".wav", ".wav.zst"}

// Decoder turns file contents into a playable payload.
type Decoder func(id string, data []byte) (*audio.Payload, error)

// Loader maps dialogue IDs to decoded clips stored under
// <root>/<language>/<id><ext>. Entries are cached for the loader's lifetime;
// failed loads are counted, never cached.
type Loader struct {
	root     string
	language string
	dir      string
	exts     []string
	decode   Decoder
	logger   *log.Logger

	zstdOnce sync.Once
	zstdDec  *zstd.Decoder
	zstdErr  error

	mu       sync.Mutex
	entries  map[string]*Entry
	inflight map[string]*Pending
	loaded   int64
	failed   int64
	bytes    int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithDecoder replaces the WAV decoder.
func WithDecoder(d Decoder) Option {
	return func(l *Loader) { l.decode = d }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithExtensions sets the file extensions tried for each ID, in order.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		if len(exts) > 0 {
			l.exts = exts
		}
	}
}

// NewLoader creates a loader for one language. Nothing is read from disk
// until the first Load.
func NewLoader(root, language string, opts ...Option) *Loader {
	l := &Loader{
		root:     root,
		language: language,
		dir:      filepath.Join(root, language),
		exts:     DefaultExtensions,
		decode:   audio.DecodeWAV,
		logger:   log.Default(),
		entries:  make(map[string]*Entry),
		inflight: make(map[string]*Pending),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.logger.Info("Audio loader initialized", "language", language, "dir", l.dir)
	return l
}

// Language returns the language this loader serves.
func (l *Loader) Language() string { return l.language }

// Load starts loading the clip for id and returns immediately.
//
// A cached clip comes back as an already resolved Pending without touching
// the disk. If a decode for id is still running Load returns ErrBusy. A
// missing or zero-byte file is counted as failed and reported as
// ErrNotFound. Otherwise the file is decoded on a new goroutine and the
// returned Pending resolves with the payload or with ErrDecodeFailure.
func (l *Loader) Load(id string) (*Pending, error) {
	if id == "" || !validID(id) {
		return nil, ErrNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[id]; ok {
		l.logger.Debug("Audio cache hit", "id", id)
		return resolved(id, e.Payload), nil
	}
	if _, busy := l.inflight[id]; busy {
		l.logger.Debug("Audio load already running", "id", id)
		return nil, ErrBusy
	}

	path, size, ok := l.locate(id)
	if !ok {
		l.failed++
		l.logger.Debug("Audio file not found", "id", id, "dir", l.dir)
		return nil, ErrNotFound
	}
	if size == 0 {
		l.failed++
		l.logger.Warn("Audio file is empty", "path", path)
		return nil, ErrNotFound
	}

	p := newPending(id)
	l.inflight[id] = p
	go l.decodeFile(p, path)
	return p, nil
}

// Lookup returns a cached clip without loading anything.
func (l *Loader) Lookup(id string) (*audio.Payload, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return nil, false
	}
	return e.Payload, true
}

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		Language: l.language,
		Loaded:   l.loaded,
		Failed:   l.failed,
		Root:     l.root,
		Bytes:    l.bytes,
	}
}

// Close releases the zstd decoder. Cached clips stay readable through
// payloads already handed out.
func (l *Loader) Close() {
	l.zstdOnce.Do(func() {})
	if l.zstdDec != nil {
		l.zstdDec.Close()
	}
}

// locate returns the first existing file for id.
func (l *Loader) locate(id string) (path string, size int64, ok bool) {
	for _, ext := range l.exts {
		path = filepath.Join(l.dir, id+ext)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return path, info.Size(), true
	}
	return "", 0, false
}

func (l *Loader) decodeFile(p *Pending, path string) {
	start := time.Now()
	payload, err := l.readAndDecode(p.ID(), path)

	l.mu.Lock()
	delete(l.inflight, p.ID())
	if err != nil {
		l.failed++
	} else {
		l.entries[p.ID()] = &Entry{ID: p.ID(), Payload: payload, LoadedAt: time.Now()}
		l.loaded++
		l.bytes += int64(payload.Size())
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("Audio decode failed", "path", path, "error", err)
		p.resolve(nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, filepath.Base(path), err))
		return
	}

	l.logger.Debug("Audio loaded", "id", p.ID(), "duration", payload.Duration(), "took", time.Since(start))
	p.resolve(payload, nil)
}

func (l *Loader) readAndDecode(id, path string) (*audio.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, zstdExt) {
		dec, err := l.zstdDecoder()
		if err != nil {
			return nil, err
		}
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	payload, err := l.decode(id, data)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("decoder returned no payload")
	}
	return payload, nil
}

func (l *Loader) zstdDecoder() (*zstd.Decoder, error) {
	l.zstdOnce.Do(func() {
		l.zstdDec, l.zstdErr = zstd.NewReader(nil)
		if l.zstdErr != nil {
			l.zstdErr = fmt.Errorf("failed to create zstd decoder: %w", l.zstdErr)
		}
	})
	return l.zstdDec, l.zstdErr
}

// validID rejects IDs that would escape the language directory.
func validID(id string) bool {
	return !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
