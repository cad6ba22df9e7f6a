package geo

import (
	"math"
	"testing"
	"time"
)

func TestDistanceMetersZero(t *testing.T) {
	p := Coordinate{Latitude: 41.0082, Longitude: 28.9784}
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestDistanceMetersKnownPairs(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		want      float64
		tolerance float64
	}{
		{
			// One degree of latitude at the equator.
			name:      "one degree latitude",
			a:         Coordinate{0, 0},
			b:         Coordinate{1, 0},
			want:      111195,
			tolerance: 5,
		},
		{
			name:      "paris to london",
			a:         Coordinate{48.8566, 2.3522},
			b:         Coordinate{51.5074, -0.1278},
			want:      343500,
			tolerance: 1000,
		},
		{
			name:      "short hop",
			a:         Coordinate{41.00820, 28.97840},
			b:         Coordinate{41.00910, 28.97840},
			want:      100,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters = %f, want %f ± %f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	a := Coordinate{41.0082, 28.9784}
	b := Coordinate{39.9334, 32.8597}
	if DistanceMeters(a, b) != DistanceMeters(b, a) {
		t.Error("distance is not symmetric")
	}
}

func TestCoordinateValid(t *testing.T) {
	if !(Coordinate{41.0, 29.0}).Valid() {
		t.Error("finite coordinate reported invalid")
	}
	if (Coordinate{math.NaN(), 29.0}).Valid() {
		t.Error("NaN latitude reported valid")
	}
	if (Coordinate{41.0, math.Inf(1)}).Valid() {
		t.Error("Inf longitude reported valid")
	}
}

func TestWindowContainsBounds(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	lead, grace := 30, 60

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at open bound", start.Add(-30 * time.Minute), true},
		{"minute before open", start.Add(-31 * time.Minute), false},
		{"at start", start, true},
		{"at close bound", start.Add(60 * time.Minute), true},
		{"minute after close", start.Add(61 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowContains(tt.now, start, lead, grace); got != tt.want {
				t.Errorf("WindowContains(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
