package engines

import (
	"context"
	"strings"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
)

const windowsPrelude = "$ErrorActionPreference = 'Stop'; " +
	"[Console]::InputEncoding = [Text.Encoding]::UTF8; " +
	"Add-Type -AssemblyName System.Speech; " +
	"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; "

const windowsListScript = windowsPrelude +
	"$s.GetInstalledVoices() | Where-Object { $_.Enabled } | " +
	"ForEach-Object { $_.VoiceInfo.Name + '#' + $_.VoiceInfo.Culture.Name }"

// Windows speaks through System.Speech. The text is passed on stdin so it
// never needs escaping.
type Windows struct {
	bin    string
	runner Runner
}

// Kind implements speech.Backend.
func (w *Windows) Kind() speech.Kind { return speech.KindWindows }

// Voices implements speech.Backend.
func (w *Windows) Voices(ctx context.Context) ([]string, error) {
	ctx, cancel := listContext(ctx)
	defer cancel()

	out, err := w.runner.Run(ctx, "", w.bin, powershellArgs(windowsListScript)...)
	if err != nil {
		return nil, err
	}
	return parseLines(out), nil
}

// Say implements speech.Backend.
func (w *Windows) Say(ctx context.Context, text, voice string) error {
	_, err := w.runner.Run(ctx, text, w.bin, powershellArgs(windowsSayScript(voice))...)
	return err
}

func windowsSayScript(voice string) string {
	var b strings.Builder
	b.WriteString(windowsPrelude)
	if voice != "" {
		b.WriteString("$s.SelectVoice(" + psQuote(voice) + "); ")
	}
	b.WriteString("$s.Speak([Console]::In.ReadToEnd())")
	return b.String()
}

func powershellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// psQuote returns s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// parseLines returns the non-blank lines of out, trimmed.
func parseLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
