package localization

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello there", "Hello there"},
		{"color tag", "<color=#FF0000>Hello</color> there", "Hello there"},
		{"lowercase hex", "<color=#a0b1c2>Hi</color>", "Hi"},
		{"narrator marker", NarratorMarker + "The wind howls.</color></i>", "The wind howls."},
		{"generic tags", "<b>Bold</b> and <size=120%>big</size>", "Bold and big"},
		{"whitespace runs", "  Hello \n\t there  ", "Hello there"},
		{"tag leaves double space", "Hello <i> </i> there", "Hello there"},
		{"decomposed accent", "Cafe\u0301", "Caf\u00e9"},
		{"accent split by tag", "Cafe<b>\u0301</b>", "Caf\u00e9"},
		{"lone angle bracket", "5 < 6", "5 < 6"},
		{"no-break spaces", "Hello\u00a0\u00a0there", "Hello there"},
		{"no-break and plain space", "Hello\u00a0 there", "Hello there"},
		{"thin space", "Hello\u2009there", "Hello there"},
		{"narrow no-break before punctuation", "Bonjour\u202f!", "Bonjour !"},
		{"ideographic space", "\u3000Hello\u3000", "Hello"},
		{"vertical tab", "Hello\vthere", "Hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	seeds := []string{
		"",
		"Hello there",
		"<color=#FF0000>Hello</color> there",
		"<<b>a>",
		"<><b>x",
		"a <i> b </i>  c",
		"e<b>\u0301",
		NarratorMarker + "line",
		" x  y ",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
