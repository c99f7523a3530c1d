package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestEveryThemeHasGlamourStyle(t *testing.T) {
	for _, name := range ThemeNames() {
		if GetTheme(name).Glamour == "" {
			t.Fatalf("theme %s has no glamour style", name)
		}
	}
}

func TestLevelStyleDistinguishesErrors(t *testing.T) {
	s := GetTheme("Nightfox").Styles()
	if s.LevelStyle("error").GetForeground() != s.DangerText.GetForeground() {
		t.Fatalf("LevelStyle(error) does not use the danger color")
	}
	if s.LevelStyle("bogus").GetForeground() != s.MutedText.GetForeground() {
		t.Fatalf("LevelStyle(bogus) does not fall back to muted")
	}
}
