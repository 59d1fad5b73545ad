package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find QUERY",
	Short: "Fuzzy-search the localization for a line",
	Long: paragraph(fmt.Sprintf("\n%s the dialogue lines of the current language and print their IDs, best match first.",
		keyword("Search"))),
	Example: paragraph("speechmod find \"void awaits\"\nspeechmod find --language deDE --limit 3 Leere"),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		index := newIndex(s, s.Language)
		matches := index.Search(strings.Join(args, " "), findLimit)
		if len(matches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), faint("No matching lines."))
			return nil
		}

		t := &table{header: []string{"ID", "SCORE", "TEXT"}}
		for _, m := range matches {
			t.add(m.ID, strconv.Itoa(m.Score), clip(m.Text, 60))
		}
		fmt.Fprint(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 10, "maximum number of matches (0 for all)")
}
