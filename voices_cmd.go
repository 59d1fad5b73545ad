package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
	"github.com/spf13/cobra"
)

var (
	voicesSample string
	voicesRole   string
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the speech engine",
	Long: paragraph(fmt.Sprintf("\n%s the voices the configured speech engine offers, sorted by language, and show which role uses each one.",
		keyword("List"))),
	Example: paragraph("speechmod voices\nspeechmod voices --say \"For the Emperor\" --role protagonist"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		synth := newSynthesizer(cmd.Context(), s)
		assigned := synth.Roster()

		t := &table{header: []string{"#", "VOICE", "LANGUAGE", "ROLES"}}
		for i, v := range synth.Voices() {
			var roles []string
			for _, r := range []speech.Role{speech.Narrator, speech.Female, speech.Male, speech.Protagonist} {
				if assigned.Index(r) == i {
					roles = append(roles, r.String())
				}
			}
			if assigned.Custom != "" && speech.VoiceName(v) == assigned.Custom {
				roles = append(roles, speech.Custom.String())
			}
			t.add(strconv.Itoa(i), speech.VoiceName(v), speech.VoiceLabel(v), strings.Join(roles, ", "))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", faint("engine:"), keyword(string(synth.Kind())))
		fmt.Fprint(cmd.OutOrStdout(), t.String())

		if voicesSample == "" {
			return nil
		}
		role, err := speech.ParseRole(voicesRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", faint("speaking as"), keyword(assigned.Voice(role, synth.Voices())))
		synth.Speak(voicesSample, role, 0, "")
		synth.Wait()
		return nil
	},
}

func init() {
	voicesCmd.Flags().StringVar(&voicesSample, "say", "", "speak a sample with the selected role")
	voicesCmd.Flags().StringVar(&voicesRole, "role", "narrator", "role for --say: narrator, male, female, protagonist or custom")
}
