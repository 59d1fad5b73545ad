package engines

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

type call struct {
	stdin string
	name  string
	args  []string
}

type fakeRunner struct {
	out   []byte
	err   error
	calls []call
}

func (r *fakeRunner) Run(_ context.Context, stdin, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{stdin: stdin, name: name, args: args})
	return r.out, r.err
}

func lookPathOnly(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		kind      speech.Kind
		goos      string
		installed []string
		want      speech.Kind
		wantErr   error
	}{
		{"auto windows", speech.KindAuto, "windows", []string{"powershell"}, speech.KindWindows, nil},
		{"auto windows pwsh", speech.KindAuto, "windows", []string{"pwsh"}, speech.KindWindows, nil},
		{"auto darwin", speech.KindAuto, "darwin", []string{"say"}, speech.KindApple, nil},
		{"auto linux espeak", speech.KindAuto, "linux", []string{"espeak"}, speech.KindEspeak, nil},
		{"auto linux nothing", speech.KindAuto, "linux", nil, "", speech.ErrEngineUnavailable},
		{"audiofile anywhere", speech.KindAudioFile, "linux", nil, speech.KindAudioFile, nil},
		{"unknown", speech.Kind("sapi4"), "windows", nil, "", speech.ErrUnknownEngine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Select(tt.kind, tt.goos, WithLookPath(lookPathOnly(tt.installed...)), WithRunner(&fakeRunner{}))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if b.Kind() != tt.want {
				t.Errorf("kind = %s, want %s", b.Kind(), tt.want)
			}
		})
	}
}

func TestParseSayVoices(t *testing.T) {
	out := []byte(`Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Amélie              fr_CA    # Bonjour, je m’appelle Amélie.
garbage line
`)
	got := parseSayVoices(out)
	want := []string{"Alex#en_US", "Bad News#en_US", "Amélie#fr_CA"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseEspeakVoices(t *testing.T) {
	out := []byte(`Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-gb           --/M      English_(Great_Britain) gmw/en               (en 2)

`)
	got := parseEspeakVoices(out)
	want := []string{"Afrikaans#af", "English_(Great_Britain)#en-gb"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWindowsVoices(t *testing.T) {
	r := &fakeRunner{out: []byte("Microsoft David Desktop#en-US\r\nMicrosoft Zira Desktop#en-US\r\n\r\n")}
	w := &Windows{bin: "powershell", runner: r}

	got, err := w.Voices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != "Microsoft Zira Desktop#en-US" {
		t.Errorf("got %q", got)
	}
}

func TestSayPassesTextOnStdin(t *testing.T) {
	text := `He said "don't" & left; $(rm -rf /)`

	tests := []struct {
		name    string
		backend speech.Backend
		check   func(t *testing.T, c call)
	}{
		{
			name:    "windows",
			backend: &Windows{bin: "powershell", runner: &fakeRunner{}},
			check: func(t *testing.T, c call) {
				script := c.args[len(c.args)-1]
				if !strings.Contains(script, "SelectVoice('O''Brien')") {
					t.Errorf("voice not quoted: %s", script)
				}
				if strings.Contains(script, text) {
					t.Error("text leaked into the script")
				}
			},
		},
		{
			name:    "apple",
			backend: &Apple{bin: "say", runner: &fakeRunner{}},
			check: func(t *testing.T, c call) {
				if strings.Join(c.args, " ") != "-v O'Brien" {
					t.Errorf("args = %q", c.args)
				}
			},
		},
		{
			name:    "espeak",
			backend: &Espeak{bin: "espeak-ng", runner: &fakeRunner{}},
			check: func(t *testing.T, c call) {
				if strings.Join(c.args, " ") != "-v O'Brien --stdin" {
					t.Errorf("args = %q", c.args)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.backend.Say(context.Background(), text, "O'Brien"); err != nil {
				t.Fatal(err)
			}
			var r *fakeRunner
			switch b := tt.backend.(type) {
			case *Windows:
				r = b.runner.(*fakeRunner)
			case *Apple:
				r = b.runner.(*fakeRunner)
			case *Espeak:
				r = b.runner.(*fakeRunner)
			}
			if len(r.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(r.calls))
			}
			if r.calls[0].stdin != text {
				t.Errorf("stdin = %q, want %q", r.calls[0].stdin, text)
			}
			tt.check(t, r.calls[0])
		})
	}
}

func TestAudioFileBackend(t *testing.T) {
	b := AudioFile{}
	voices, err := b.Voices(context.Background())
	if err != nil || len(voices) != 1 {
		t.Fatalf("Voices = %v, %v", voices, err)
	}
	if err := b.Say(context.Background(), "text", "None"); err != nil {
		t.Errorf("Say: %v", err)
	}
}
