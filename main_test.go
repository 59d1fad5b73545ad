package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/spf13/viper"
)

func TestUseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte("language: deDE\nauto_play: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	config.SetDefaults(v, t.TempDir())
	if err := useConfigFile(v, path, true); err != nil {
		t.Fatalf("useConfigFile() error = %v", err)
	}
	if got := v.ConfigFileUsed(); got != path {
		t.Errorf("ConfigFileUsed() = %q, want %q", got, path)
	}

	s, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.Language != "deDE" || s.AutoPlay {
		t.Errorf("settings not read from %s: %+v", path, s)
	}
}

func TestUseConfigFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yml")

	if err := useConfigFile(viper.New(), path, true); err == nil {
		t.Error("expected an error for a missing config file")
	}

	v := viper.New()
	if err := useConfigFile(v, path, false); err != nil {
		t.Errorf("useConfigFile() error = %v, want nil when the file may be created", err)
	}
	if v.ConfigFileUsed() != "" {
		t.Error("missing file must not be selected")
	}
}

func TestUseConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("language: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := useConfigFile(viper.New(), path, true); err == nil {
		t.Error("expected a parse error")
	}
}
