package extraction

import (
	"strings"
	"testing"
)

func TestValidPair(t *testing.T) {
	cases := []struct {
		name   string
		artist string
		title  string
		want   bool
	}{
		{"typical pair", "Daft Punk", "One More Time", true},
		{"artist too short", "DP", "One More Time", false},
		{"artist too long", strings.Repeat("a", 50), "One More Time", false},
		{"title too short", "Daft Punk", "One", false},
		{"title too long", "Daft Punk", strings.Repeat("x", 150), false},
		{"numeric artist", "12345", "One More Time", false},
		{"code-like artist", "xF9q2z", "One More Time", false},
		{"multi-word artist with digit ok", "Maroon 5", "Sunday Morning", true},
		{"title starts with bracket", "Daft Punk", "(One More Time)", false},
		{"title starts with www", "Daft Punk", "www.example.com song", false},
		{"banned token video", "Official Video", "One More Time", false},
		{"banned token feat", "Artist feat Other", "One More Time", false},
		{"banned token remix", "Some Remix", "One More Time", false},
		{"multi-byte artist within bounds", strings.Repeat("Дж", 15), "Одна песня ещё раз", true},
		{"multi-byte artist too long", strings.Repeat("Дж", 25), "Одна песня ещё раз", false},
		{"multi-byte title within bounds", "宇多田ヒカル", strings.Repeat("桜", 100), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidPair(tc.artist, tc.title); got != tc.want {
				t.Fatalf("ValidPair(%q, %q) = %v, want %v", tc.artist, tc.title, got, tc.want)
			}
		})
	}
}

func TestValidPairTrimsWhitespace(t *testing.T) {
	if !ValidPair("  Daft Punk  ", "  One More Time  ") {
		t.Fatal("expected trimmed pair to validate")
	}
}
