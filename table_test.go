package main

import "testing"

func TestTable(t *testing.T) {
	tb := &table{header: []string{"#", "VOICE", "LABEL"}}
	tb.add("0", "Zira", "en-US")
	tb.add("12", "Okami", "ja-JP")
	tb.add("3", "語音", "zh-CN")

	want := "" +
		"#   VOICE  LABEL\n" +
		"0   Zira   en-US\n" +
		"12  Okami  ja-JP\n" +
		"3   語音   zh-CN\n"
	if got := tb.String(); got != want {
		t.Errorf("table =\n%s\nwant\n%s", got, want)
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"multi\n  line\ttext", 20, "multi line text"},
		{"abcdefghij", 5, "ab..."},
	}
	for _, tt := range tests {
		if got := clip(tt.in, tt.width); got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
