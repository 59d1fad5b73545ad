package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Voice every line written to the cue file",
	Long: paragraph(fmt.Sprintf("\n%s the cue file written by the game hook and voice each new line. Changes to the config file are picked up without a restart.",
		keyword("Follow"))),
	Example: paragraph("speechmod watch --cue ~/RogueTrader/speechmod-cue.json"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if s.CueFile == "" {
			return errors.New("no cue file configured: set cue_file or pass --cue")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, s)
		if err != nil {
			return err
		}
		defer a.close()

		reload := make(chan config.Settings, 1)
		if viper.ConfigFileUsed() != "" {
			viper.OnConfigChange(func(fsnotify.Event) {
				ns, err := loadSettings()
				if err != nil {
					log.Warn("Ignoring configuration change", "err", err)
					return
				}
				select {
				case <-reload:
				default:
				}
				reload <- ns
			})
			viper.WatchConfig()
		}

		return watchCues(ctx, a, s.CueFile, reload)
	},
}

// watchCues feeds cue file updates to the resolver until ctx is done. The
// directory is watched rather than the file so editors and hooks that
// replace the file atomically are followed too.
func watchCues(ctx context.Context, a *app, path string, reload <-chan config.Settings) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to watch cue file: %w", err)
	}
	defer w.Close() //nolint:errcheck

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("unable to create cue directory: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("unable to watch cue file: %w", err)
	}

	// Content present before we started is stale.
	last, _ := os.ReadFile(path)
	log.Info("Watching cue file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-reload:
			a.apply(s)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Cue watcher error", "err", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					log.Warn("Could not read cue file", "err", err)
				}
				continue
			}
			if len(data) == 0 || bytes.Equal(data, last) {
				continue
			}
			last = data

			c, err := parseCue(data)
			if err != nil {
				log.Warn("Ignoring cue", "err", err)
				continue
			}
			if c.Stop {
				a.resolver.Stop()
				continue
			}
			a.resolver.HandleLine(c.ID, c.Text)
		}
	}
}

func init() {
	watchCmd.Flags().String("cue", "", "cue file written by the game hook")
	_ = viper.BindPFlag(config.KeyCueFile, watchCmd.Flags().Lookup("cue"))
}
