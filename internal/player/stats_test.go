package player

import "testing"

func TestPercentageRounding(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
	}
	for _, c := range cases {
		if got := Percentage(c.score, c.total); got != c.want {
			t.Fatalf("Percentage(%d,%d)=%d, want %d", c.score, c.total, got, c.want)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(0, 4); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := Progress(3, 4); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := Progress(0, 0); got != 0 {
		t.Fatalf("expected 0 for empty quiz, got %d", got)
	}
}

func TestBandThresholds(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79, "Good"},
		{60, "Good"},
		{59, "Not Bad"},
		{40, "Not Bad"},
		{39, "Keep Trying"},
		{0, "Keep Trying"},
	}
	for _, c := range cases {
		if got := Band(c.pct); got != c.want {
			t.Fatalf("Band(%d)=%q, want %q", c.pct, got, c.want)
		}
	}
}
