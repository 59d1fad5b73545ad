package speech

import "strings"

// Roster maps voice roles to indices into the normalized voice list.
type Roster struct {
	Narrator    int
	Female      int
	Male        int
	Protagonist int

	// Custom is an engine voice name used for the Custom role. Empty means
	// the narrator voice.
	Custom string
}

// Reconcile resets every index outside [0, n) to 0 and returns the roles it
// changed. With an empty list every index becomes 0.
func (r *Roster) Reconcile(n int) []Role {
	var changed []Role
	for _, slot := range []struct {
		role Role
		idx  *int
	}{
		{Narrator, &r.Narrator},
		{Female, &r.Female},
		{Male, &r.Male},
		{Protagonist, &r.Protagonist},
	} {
		if *slot.idx < 0 || *slot.idx >= n {
			if *slot.idx != 0 {
				changed = append(changed, slot.role)
			}
			*slot.idx = 0
		}
	}
	return changed
}

// Index returns the configured index for role. Custom maps to the narrator.
func (r Roster) Index(role Role) int {
	switch role {
	case Female:
		return r.Female
	case Male:
		return r.Male
	case Protagonist:
		return r.Protagonist
	default:
		return r.Narrator
	}
}

// Voice returns the engine voice name for role, or "" when voices is empty.
func (r Roster) Voice(role Role, voices []string) string {
	if role == Custom {
		if name := strings.TrimSpace(r.Custom); name != "" {
			return name
		}
	}
	if len(voices) == 0 {
		return ""
	}

	i := r.Index(role)
	if i < 0 || i >= len(voices) {
		i = 0
	}
	return VoiceName(voices[i])
}
