package dialogue

import "fmt"

// State is a step of the per-line resolution machine. Every line starts and
// ends in Idle.
type State int

const (
	Idle State = iota
	VoiceActedCheck
	Suppressed
	AudioLookup
	Playing
	TTSFallback
)

var stateNames = [...]string{
	Idle:            "idle",
	VoiceActedCheck: "voice-acted-check",
	Suppressed:      "suppressed",
	AudioLookup:     "audio-lookup",
	Playing:         "playing",
	TTSFallback:     "tts-fallback",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Outcome is how a line was handled.
type Outcome int

const (
	// OutcomeSkipped means auto play is off or the line had nothing to say.
	OutcomeSkipped Outcome = iota
	// OutcomeSuppressed means the game voices the line itself.
	OutcomeSuppressed
	// OutcomePlaying means a cached clip was handed to the player.
	OutcomePlaying
	// OutcomePending means a clip is being decoded; playback or the
	// fallback continues when it finishes.
	OutcomePending
	// OutcomeSpoken means the line was handed to the speech engine.
	OutcomeSpoken
	// OutcomeDropped means a decode for the same clip was already running.
	OutcomeDropped
	// OutcomeFailed means a collaborator panicked.
	OutcomeFailed
)

var outcomeNames = [...]string{
	OutcomeSkipped:    "skipped",
	OutcomeSuppressed: "suppressed",
	OutcomePlaying:    "playing",
	OutcomePending:    "pending",
	OutcomeSpoken:     "spoken",
	OutcomeDropped:    "dropped",
	OutcomeFailed:     "failed",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}
