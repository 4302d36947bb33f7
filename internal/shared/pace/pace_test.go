package pace

import "testing"

func TestMinutesPerKmZeroDistance(t *testing.T) {
	if got := MinutesPerKm(180, 0); got != 0 {
		t.Fatalf("expected 0 pace at zero distance, got %f", got)
	}
	if got := MinutesPerKm(180, -1); got != 0 {
		t.Fatalf("expected 0 pace at negative distance, got %f", got)
	}
}

func TestMinutesPerKm(t *testing.T) {
	// 300 seconds over 1 km is a 5 min/km pace.
	if got := MinutesPerKm(300, 1); got != 5 {
		t.Fatalf("expected 5 min/km, got %f", got)
	}
}

func TestRoundedMinutes(t *testing.T) {
	cases := []struct {
		seconds int64
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{90, 2},
		{1800, 30},
	}
	for _, c := range cases {
		if got := RoundedMinutes(c.seconds); got != c.want {
			t.Fatalf("RoundedMinutes(%d) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

func TestClampBpm(t *testing.T) {
	if got := ClampBpm(100, 120, 185); got != 120 {
		t.Fatalf("expected lower clamp, got %d", got)
	}
	if got := ClampBpm(200, 120, 185); got != 185 {
		t.Fatalf("expected upper clamp, got %d", got)
	}
	if got := ClampBpm(150, 120, 185); got != 150 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}
