package speech

import (
	"testing"
)

func TestNormalizeVoices(t *testing.T) {
	raw := []string{
		"Zira#en-US",
		"Pavel",
		"Hedda#de-DE",
		"Broken#",
		"a#b#c",
		"",
		"#",
		"David#en-US",
	}
	want := []string{
		"Hedda#de-DE",
		"Zira#en-US",
		"David#en-US",
		"Pavel#Unknown",
		"Broken#Unknown",
		"abc#Unknown",
	}

	got := NormalizeVoices(raw)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("voice %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeVoicesEmpty(t *testing.T) {
	if got := NormalizeVoices(nil); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestVoiceNameAndLabel(t *testing.T) {
	tests := []struct {
		entry, name, label string
	}{
		{"Microsoft Zira Desktop#en-US", "Microsoft Zira Desktop", "en-US"},
		{"Pavel#Unknown", "Pavel", "Unknown"},
		{"plain", "plain", ""},
	}
	for _, tt := range tests {
		if got := VoiceName(tt.entry); got != tt.name {
			t.Errorf("VoiceName(%q) = %q, want %q", tt.entry, got, tt.name)
		}
		if got := VoiceLabel(tt.entry); got != tt.label {
			t.Errorf("VoiceLabel(%q) = %q, want %q", tt.entry, got, tt.label)
		}
	}
}

func TestRosterReconcile(t *testing.T) {
	r := Roster{Narrator: 1, Female: 7, Male: -2, Protagonist: 2}
	changed := r.Reconcile(3)

	if r.Female != 0 || r.Male != 0 {
		t.Errorf("out of range indices not reset: %+v", r)
	}
	if r.Narrator != 1 || r.Protagonist != 2 {
		t.Errorf("in range indices changed: %+v", r)
	}
	if len(changed) != 2 || changed[0] != Female || changed[1] != Male {
		t.Errorf("changed = %v, want [female male]", changed)
	}
}

func TestRosterReconcileClampInvariant(t *testing.T) {
	indices := []int{-100, -1, 0, 1, 2, 3, 7, 1 << 30}
	for n := 1; n <= 5; n++ {
		for _, idx := range indices {
			r := Roster{Narrator: idx, Female: idx, Male: idx, Protagonist: idx}
			r.Reconcile(n)
			for _, role := range []Role{Narrator, Female, Male, Protagonist} {
				if got := r.Index(role); got < 0 || got >= n {
					t.Errorf("n=%d idx=%d: %s index %d out of range", n, idx, role, got)
				}
			}
		}
	}
}

func TestRosterVoice(t *testing.T) {
	voices := []string{"Hedda#de-DE", "Zira#en-US", "David#en-US"}
	r := Roster{Narrator: 2, Female: 1, Male: 0, Protagonist: 2}

	tests := []struct {
		role Role
		want string
	}{
		{Narrator, "David"},
		{Female, "Zira"},
		{Male, "Hedda"},
		{Protagonist, "David"},
		{Custom, "David"},
	}
	for _, tt := range tests {
		if got := r.Voice(tt.role, voices); got != tt.want {
			t.Errorf("Voice(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}

	r.Custom = "Microsoft Hazel"
	if got := r.Voice(Custom, voices); got != "Microsoft Hazel" {
		t.Errorf("custom voice = %q", got)
	}
	if got := r.Voice(Narrator, nil); got != "" {
		t.Errorf("expected no voice for empty list, got %q", got)
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{Narrator, Male, Female, Protagonist, Custom} {
		got, err := ParseRole(role.String())
		if err != nil || got != role {
			t.Errorf("ParseRole(%q) = %v, %v", role.String(), got, err)
		}
	}
	if _, err := ParseRole("Ork"); err == nil {
		t.Error("expected error for unknown role")
	}
	if got, _ := ParseRole(" Female "); got != Female {
		t.Errorf("ParseRole should trim and fold case, got %v", got)
	}
}
