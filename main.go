// Package main provides the entry point for the speechmod CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	rootCmd = &cobra.Command{
		Use:   "speechmod",
		Short: "Voice Rogue Trader dialogue with recorded clips or speech synthesis",
		Long: paragraph(
			fmt.Sprintf("\nVoice every dialogue line, %s when a clip exists and with the system speech engine when it doesn't.", keyword("from recordings")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("config") {
				return nil
			}
			// config edit creates the file when it is missing.
			return useConfigFile(viper.GetViper(), configFile, cmd != configCmd)
		},
	}
)

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringP("language", "l", "", "localization language, e.g. enGB or ruRU")
	rootCmd.PersistentFlags().String("game-data", "", "game streaming assets folder")
	rootCmd.PersistentFlags().String("engine", "", "speech engine: auto, windows, apple, espeak or audiofile")

	// Config bindings
	_ = viper.BindPFlag(config.KeyLanguage, rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag(config.KeyGameData, rootCmd.PersistentFlags().Lookup("game-data"))
	_ = viper.BindPFlag(config.KeySpeechEngine, rootCmd.PersistentFlags().Lookup("engine"))

	rootCmd.AddCommand(resolveCmd, watchCmd, voicesCmd, findCmd, statsCmd, configCmd, manCmd)
}

// useConfigFile makes v read its settings from path instead of the default
// search locations. A missing file is only an error when mustExist is set.
func useConfigFile(v *viper.Viper, path string, mustExist bool) error {
	path, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !mustExist && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", path, err)
	}
	log.Debug("Using configuration file", "path", path)
	return nil
}

// defaultModRoot is the per-user data folder for speechmod.
func defaultModRoot(scope *gap.Scope) string {
	dirs, err := scope.DataDirs()
	if err != nil || len(dirs) == 0 {
		return ""
	}
	return dirs[0]
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "speechmod")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "speechmod")}, dirs...)
	}

	if e, err := config.ParseEnv(); err == nil && e.ConfigHome != "" {
		dirs = append([]string{e.ConfigHome}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	config.SetDefaults(viper.GetViper(), defaultModRoot(scope))

	viper.SetConfigName("speechmod")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speechmod")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "speechmod.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
