package feast

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRoster(t *testing.T) {
	got := NewRoster("Simran", "👧")
	want := []Person{
		{ID: 0, Name: "Simran", IsCelebrant: true, Avatar: "👧"},
		{ID: 1, Name: "Rishabh", Avatar: "🧔"},
		{ID: 2, Name: "Gurman", Avatar: "👩"},
		{ID: 3, Name: "Divya", Avatar: "👨"},
		{ID: 4, Name: "Annaya", Avatar: "🧑"},
		{ID: 5, Name: "Aman", Avatar: "👵"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("roster mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRosterSingleCelebrant(t *testing.T) {
	roster := NewRoster("Vansh", "👦")
	celebrants := 0
	seen := make(map[int]bool)
	for _, p := range roster {
		if p.IsCelebrant {
			celebrants++
		}
		if seen[p.ID] {
			t.Errorf("duplicate ID %d", p.ID)
		}
		seen[p.ID] = true
		if p.Fed {
			t.Errorf("%s starts fed", p.Name)
		}
	}
	if celebrants != 1 {
		t.Errorf("celebrants = %d, want 1", celebrants)
	}
	if len(roster) > MaxCompanions+1 {
		t.Errorf("roster size %d exceeds cap", len(roster))
	}
}

func TestRingOffset(t *testing.T) {
	tests := []struct {
		name  string
		index int
		width float64
		want  Point
	}{
		{"wide first seat", 0, 1024, Point{X: 220, Y: 0}},
		{"wide fourth seat", 3, 1024, Point{X: -220, Y: 0}},
		{"narrow first seat", 0, 375, Point{X: 120, Y: 0}},
		{"narrow second seat", 1, 375, Point{X: 60, Y: 120 * math.Sqrt(3) / 2}},
		{"breakpoint is wide", 0, 640, Point{X: 220, Y: 0}},
		{"just below breakpoint", 0, 639, Point{X: 120, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RingOffset(tt.index, tt.width)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("RingOffset(%d, %v) = %+v, want %+v", tt.index, tt.width, got, tt.want)
			}
		})
	}
}

func TestRingSeatsAreEvenlySpaced(t *testing.T) {
	for _, width := range []float64{375, 1280} {
		r := RingRadius(width)
		for i := 0; i < 6; i++ {
			a := RingOffset(i, width)
			b := RingOffset((i+1)%6, width)
			// Adjacent seats on a hexagon are one radius apart.
			if d := a.Distance(b); math.Abs(d-r) > 1e-9 {
				t.Errorf("width %v: seats %d,%d are %v apart, want %v", width, i, (i+1)%6, d, r)
			}
			if d := a.Distance(Point{}); math.Abs(d-r) > 1e-9 {
				t.Errorf("width %v: seat %d at radius %v, want %v", width, i, d, r)
			}
		}
	}
}

func TestPointDistance(t *testing.T) {
	if d := (Point{X: 0, Y: 0}).Distance(Point{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
