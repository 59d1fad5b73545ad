package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Load every clip of the current language and report",
	Long: paragraph(fmt.Sprintf("\n%s every recorded clip of the current language through the audio cache and print how many decoded. Useful to check a voice pack before playing.",
		keyword("Decode"))),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		loader := newLoader(s, s.Language)
		defer loader.Close()

		ids, err := clipIDs(filepath.Join(s.AudioRoot(), s.Language), s.Audio.Extensions)
		if err != nil {
			return err
		}

		for _, id := range ids {
			p, err := loader.Load(id)
			if err != nil {
				log.Debug("Clip not loaded", "id", id, "err", err)
				continue
			}
			if _, err := p.Result(); err != nil {
				log.Warn("Clip failed to decode", "id", id, "err", err)
			}
		}

		index := newIndex(s, s.Language)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, loader.Stats())
		fmt.Fprintf(out, "%s %s clips, %s localized lines\n", faint("found"),
			humanize.Comma(int64(len(ids))), humanize.Comma(int64(index.Len())))
		return nil
	},
}

// clipIDs lists the dialogue IDs in dir that have a file with one of exts.
func clipIDs(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to list clips: %w", err)
	}

	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range exts {
			if id, ok := strings.CutSuffix(name, ext); ok && id != "" {
				seen[id] = struct{}{}
				break
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
