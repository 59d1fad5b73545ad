package main

import (
	"testing"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/config"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigMatchesDefaults(t *testing.T) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(defaultConfig), &doc); err != nil {
		t.Fatalf("default config is not valid YAML: %v", err)
	}

	v := viper.New()
	config.SetDefaults(v, t.TempDir())
	if err := v.MergeConfigMap(doc); err != nil {
		t.Fatalf("MergeConfigMap() error = %v", err)
	}
	s, err := config.Load(v)
	if err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}

	d := viper.New()
	config.SetDefaults(d, s.ModRoot)
	want, err := config.Load(d)
	if err != nil {
		t.Fatal(err)
	}
	if s.Language != want.Language || s.PlaybackDelay != want.PlaybackDelay ||
		s.SpeechDelay != want.SpeechDelay || s.Speech != want.Speech ||
		s.Audio.SampleRate != want.Audio.SampleRate || s.Voices != want.Voices {
		t.Errorf("default config drifted from defaults:\n got %+v\nwant %+v", s, want)
	}
}
