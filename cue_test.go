package main

import (
	"errors"
	"testing"
)

func TestParseCue(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    cue
		wantErr error
	}{
		{"id and text", `{"id":"abc-123","text":"Hello"}`, cue{ID: "abc-123", Text: "Hello"}, nil},
		{"text only", `{"text":"<i>Narrated</i>"}`, cue{Text: "<i>Narrated</i>"}, nil},
		{"id trimmed", `{"id":"  abc  "}`, cue{ID: "abc"}, nil},
		{"stop", `{"stop":true}`, cue{Stop: true}, nil},
		{"extra fields ignored", `{"id":"x","speaker":"Abelard"}`, cue{ID: "x"}, nil},
		{"empty object", `{}`, cue{}, errEmptyCue},
		{"blank text", `{"text":"   "}`, cue{}, errEmptyCue},
		{"array", `[1,2]`, cue{}, errInvalidCue},
		{"garbage", `{"id":`, cue{}, errInvalidCue},
		{"empty file", ``, cue{}, errInvalidCue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCue([]byte(tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseCue() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
