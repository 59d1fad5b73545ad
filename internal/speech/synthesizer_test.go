package speech_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech"
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/speech/mock"
	"github.com/charmbracelet/log"
)

func newSynth(t *testing.T, engine *mock.Engine, roster speech.Roster) *speech.Synthesizer {
	t.Helper()
	s := speech.New(engine, roster, speech.WithLogger(log.New(io.Discard)), speech.WithRateLimit(0))
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return s
}

func TestRefreshReconcilesRoster(t *testing.T) {
	engine := mock.New("Zira#en-US", "David#en-US", "Hedda#de-DE")
	s := newSynth(t, engine, speech.Roster{Female: 7})

	if got := s.Roster().Female; got != 0 {
		t.Errorf("female index = %d, want 0", got)
	}
	if got := s.Voices(); len(got) != 3 || got[0] != "Hedda#de-DE" {
		t.Errorf("voices = %v", got)
	}
}

func TestRefreshWithoutVoices(t *testing.T) {
	tests := []struct {
		name   string
		engine *mock.Engine
	}{
		{"empty list", mock.New()},
		{"listing fails", func() *mock.Engine {
			e := mock.New("Zira#en-US")
			e.SetVoicesError(errors.New("powershell missing"))
			return e
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := speech.New(tt.engine, speech.Roster{}, speech.WithLogger(log.New(io.Discard)))
			err := s.Refresh(context.Background())
			if !errors.Is(err, speech.ErrEngineUnavailable) {
				t.Fatalf("expected ErrEngineUnavailable, got %v", err)
			}
			var serr *speech.Error
			if !errors.As(err, &serr) || !serr.IsFatal() {
				t.Errorf("expected a fatal *speech.Error, got %#v", err)
			}
		})
	}
}

func TestSpeakUsesRoleVoice(t *testing.T) {
	engine := mock.New("Zira#en-US", "David#en-US")
	s := newSynth(t, engine, speech.Roster{Narrator: 1})

	s.Speak("Unvoiced line", speech.Narrator, 0, "missing-1")
	s.Wait()

	spoken := engine.Spoken()
	if len(spoken) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(spoken))
	}
	// Sorted by label, stable: Zira then David.
	if spoken[0].Text != "Unvoiced line" || spoken[0].Voice != "David" {
		t.Errorf("unexpected utterance %+v", spoken[0])
	}
	if s.IsSpeaking() {
		t.Error("still speaking after completion")
	}
}

func TestSpeakIgnoresBlankText(t *testing.T) {
	engine := mock.New("Zira#en-US")
	s := newSynth(t, engine, speech.Roster{})

	s.Speak("   ", speech.Narrator, 0, "")
	s.Wait()
	if n := len(engine.Spoken()); n != 0 {
		t.Errorf("expected no utterance, got %d", n)
	}
}

func TestSpeakCancelsPrevious(t *testing.T) {
	engine := mock.New("Zira#en-US")
	engine.Block()
	s := newSynth(t, engine, speech.Roster{})

	s.Speak("first", speech.Narrator, 0, "")
	waitFor(t, func() bool { return len(engine.Spoken()) == 1 })

	s.Speak("second", speech.Narrator, 0, "")
	waitFor(t, func() bool { return engine.Cancelled() == 1 })

	engine.Release()
	s.Wait()

	spoken := engine.Spoken()
	if len(spoken) != 2 || spoken[1].Text != "second" {
		t.Errorf("unexpected utterances %+v", spoken)
	}
}

func TestStopCancelsDelayedSpeech(t *testing.T) {
	engine := mock.New("Zira#en-US")
	s := newSynth(t, engine, speech.Roster{})

	s.Speak("later", speech.Narrator, 50*time.Millisecond, "")
	if !s.IsSpeaking() {
		t.Error("scheduled utterance should count as speaking")
	}
	s.Stop()
	s.Wait()

	if n := len(engine.Spoken()); n != 0 {
		t.Errorf("expected no utterance after Stop, got %d", n)
	}
	if s.IsSpeaking() {
		t.Error("still speaking after Stop")
	}
}

func TestStopIdle(t *testing.T) {
	s := newSynth(t, mock.New("Zira#en-US"), speech.Roster{})
	s.Stop()
	s.Stop()
	if s.IsSpeaking() {
		t.Error("idle synthesizer reports speaking")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSpeakFailureIsReported(t *testing.T) {
	engine := mock.New("Zira#en-US")
	s := newSynth(t, engine, speech.Roster{})
	if s.LastError() != nil {
		t.Fatal("fresh synthesizer reports an error")
	}

	boom := errors.New("audio device busy")
	engine.SetSayError(boom)
	s.Speak("Hello", speech.Narrator, 0, "abc-123")
	s.Wait()

	err := s.LastError()
	if !errors.Is(err, boom) {
		t.Fatalf("LastError() = %v, want it to wrap %v", err, boom)
	}
	var serr *speech.Error
	if !errors.As(err, &serr) || serr.Code != speech.ErrorCodeEngineFailure {
		t.Errorf("LastError() = %v, want code %s", err, speech.ErrorCodeEngineFailure)
	}
	if serr != nil && serr.IsFatal() {
		t.Error("a single failed utterance must not disable speech")
	}
}

func TestCancelledSpeechIsNotAFailure(t *testing.T) {
	engine := mock.New("Zira#en-US")
	engine.Block()
	s := newSynth(t, engine, speech.Roster{})

	s.Speak("Hello", speech.Narrator, 0, "abc-123")
	waitFor(t, func() bool { return len(engine.Spoken()) == 1 })
	s.Stop()
	s.Wait()

	if err := s.LastError(); err != nil {
		t.Errorf("LastError() = %v after Stop, want nil", err)
	}
}
