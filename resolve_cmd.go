package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/dialogue"
	"github.com/spf13/cobra"
)

var (
	resolveID     string
	resolveText   string
	resolveNoWait bool

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Voice a single dialogue line",
		Long: paragraph(fmt.Sprintf("\n%s a dialogue line the way the game hook would: play its recorded clip when there is one, otherwise speak it with the configured engine.",
			keyword("Resolve"))),
		Example: paragraph("speechmod resolve --id 4f1c2a7e-0b --text \"Lord Captain, the void awaits.\"\nspeechmod resolve --text \"<i><color=#616161>The bridge falls silent.</color></i>\""),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resolveID == "" && strings.TrimSpace(resolveText) == "" {
				return errors.New("nothing to resolve: pass --id, --text or both")
			}

			s, err := loadSettings()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, s)
			if err != nil {
				return err
			}
			defer a.close()

			outcome := a.resolver.Resolve(dialogue.NewLine(resolveID, resolveText))
			fmt.Fprintln(cmd.OutOrStdout(), keyword(outcome.String()))

			if !resolveNoWait {
				a.drain(ctx)
			}
			return nil
		},
	}
)

func init() {
	resolveCmd.Flags().StringVar(&resolveID, "id", "", "dialogue ID (the clip name without extension)")
	resolveCmd.Flags().StringVar(&resolveText, "text", "", "displayed dialogue text")
	resolveCmd.Flags().BoolVar(&resolveNoWait, "no-wait", false, "return without waiting for playback to finish")
}
