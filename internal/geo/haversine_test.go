package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := DistanceKM(43.25, 76.95, 43.25, 76.95); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := DistanceKM(51.17, 71.43, 43.25, 76.95)
	b := DistanceKM(43.25, 76.95, 51.17, 71.43)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("asymmetric distance: %f vs %f", a, b)
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111 km anywhere on the globe.
	d := DistanceKM(50.0, 30.0, 51.0, 30.0)
	if d < 110 || d > 112.5 {
		t.Fatalf("one degree latitude = %f km, expected ~111", d)
	}
}
