package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# language of the localization and the recorded clips (enGB, ruRU, deDE, ...)
language: "enGB"
# folder holding Localization/Audio/<language>/ and SpeechMod.log
# mod_root: "~/.local/share/speechmod"
# game streaming assets folder holding Localization/<language>.json
game_data: ""
# JSON manifest of lines the game voices itself
sound_pack: ""
# file the game hook writes the current line to (watch mode)
cue_file: ""

# voice lines automatically when they are displayed
auto_play: true
# also voice lines the game already voices
auto_play_ignore_voice_acted: false
# stop the current clip when a new one starts
interrupt_playback_on_play: true
# wait before a recorded clip starts
playback_delay: "100ms"
# wait before synthesized speech starts
speech_delay: "500ms"

# voice index per role, see 'speechmod voices'
voices:
  narrator: 0
  female: 0
  male: 0
  protagonist: 0
  # engine voice name used for the custom role
  custom: ""

speech:
  # auto, windows, apple, espeak or audiofile (no synthesis)
  engine: "auto"
  requests_per_second: 4

audio:
  # 44100 or 48000
  sample_rate: 44100
  # 1 (mono) or 2 (stereo)
  channels: 2
  extensions: [".wav", ".wav.zst"]
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speechmod config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speechmod config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speechmod config\nspeechmod config --config path/to/config.yml\nspeechmod config show"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("SpeechMod", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  paragraph(fmt.Sprintf("\n%s the configuration after defaults, the config file, environment variables and flags are merged.", keyword("Print"))),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := yaml.Marshal(viper.AllSettings())
		if err != nil {
			return fmt.Errorf("unable to encode configuration: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(cmd.OutOrStdout(), faint("# "+used))
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
