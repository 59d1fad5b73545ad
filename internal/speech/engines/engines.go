// Package engines holds the platform speech backends: Windows
// (System.Speech through PowerShell), Apple (say), eSpeak NG and an
// audio-file-only stand-in. One is selected at startup.
package engines

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

// listTimeout bounds voice enumeration.
const listTimeout = 10 * time.Second

type config struct {
	runner   Runner
	lookPath func(string) (string, error)
}

// Option configures engine selection.
type Option func(*config)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(c *config) { c.runner = r }
}

// WithLookPath replaces exec.LookPath when probing for engine binaries.
func WithLookPath(f func(string) (string, error)) Option {
	return func(c *config) { c.lookPath = f }
}

// Select picks the backend for kind on goos. KindAuto picks the native
// engine for the platform. An engine whose binary is missing yields
// speech.ErrEngineUnavailable.
func Select(kind speech.Kind, goos string, opts ...Option) (speech.Backend, error) {
	cfg := config{runner: SubprocessRunner{}, lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(&cfg)
	}
	if goos == "" {
		goos = runtime.GOOS
	}

	if kind == speech.KindAuto || kind == "" {
		switch goos {
		case "windows":
			kind = speech.KindWindows
		case "darwin":
			kind = speech.KindApple
		default:
			kind = speech.KindEspeak
		}
	}

	switch kind {
	case speech.KindWindows:
		bin, err := firstBinary(cfg.lookPath, "powershell", "pwsh")
		if err != nil {
			return nil, unavailable(kind, err)
		}
		return &Windows{bin: bin, runner: cfg.runner}, nil
	case speech.KindApple:
		bin, err := firstBinary(cfg.lookPath, "say")
		if err != nil {
			return nil, unavailable(kind, err)
		}
		return &Apple{bin: bin, runner: cfg.runner}, nil
	case speech.KindEspeak:
		bin, err := firstBinary(cfg.lookPath, "espeak-ng", "espeak")
		if err != nil {
			return nil, unavailable(kind, err)
		}
		return &Espeak{bin: bin, runner: cfg.runner}, nil
	case speech.KindAudioFile:
		return AudioFile{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", speech.ErrUnknownEngine, kind)
	}
}

func firstBinary(lookPath func(string) (string, error), names ...string) (string, error) {
	var lastErr error
	for _, name := range names {
		path, err := lookPath(name)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func unavailable(kind speech.Kind, cause error) error {
	return speech.NewError(speech.ErrorCodeEngineUnavailable,
		fmt.Sprintf("%s engine not installed", kind),
		fmt.Errorf("%w: %v", speech.ErrEngineUnavailable, cause))
}

func listContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, listTimeout)
}
