package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/logfile"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const logTimeFormat = "15:04:05.000"

// setupLog points the default logger at the mod's log file and, on an
// interactive terminal, at stderr as well.
func setupLog() (func() error, error) {
	e, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid SPEECHMOD_LOG_LEVEL: %w", err)
	}

	modRoot, err := config.ExpandPath(viper.GetString(config.KeyModRoot))
	if err != nil || modRoot == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil //nolint:nilerr
	}

	f, err := logfile.Open(config.Settings{ModRoot: modRoot}.LogPath(), logfile.DefaultLimit)
	if err != nil {
		return nil, err
	}

	var w io.Writer = f
	formatter := log.LogfmtFormatter
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = io.MultiWriter(f, os.Stderr)
		formatter = log.TextFormatter
	}

	log.SetDefault(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Formatter:       formatter,
	}))
	if f.Truncated() {
		log.Info("Previous log exceeded the size limit and was discarded", "path", f.Path())
	}
	return f.Close, nil
}
