package detector

import (
	"math"
	"testing"
)

func TestDistance2D(t *testing.T) {
	var h HandLandmarks
	h.Points[Wrist] = Point3D{X: 0, Y: 0, Z: 5}
	h.Points[IndexTip] = Point3D{X: 3, Y: 4, Z: -5}

	// Depth must not contribute
	if got := h.Distance2D(Wrist, IndexTip); math.Abs(got-5) > 1e-9 {
		t.Errorf("Distance2D = %f, want 5", got)
	}
}

func TestPresetPoses(t *testing.T) {
	// Each preset pulls its defining landmarks together while the neutral
	// layout keeps everything spread apart.
	tests := []struct {
		name string
		hand HandLandmarks
		i, j int
		near bool
	}{
		{"fist pair", FistLandmarks(), Wrist, MiddleMCP, true},
		{"neutral fist pair", NeutralLandmarks(), Wrist, MiddleMCP, false},
		{"victory pair", VictoryLandmarks(), IndexTip, MiddleTip, true},
		{"pinch pair", PinchLandmarks(), ThumbTip, IndexTip, true},
		{"point pair", PointLandmarks(), IndexTip, IndexMCP, true},
	}

	for _, tt := range tests {
		d := tt.hand.Distance2D(tt.i, tt.j)
		if tt.near && d > 0.02 {
			t.Errorf("%s: distance = %f, want <= 0.02", tt.name, d)
		}
		if !tt.near && d < 0.1 {
			t.Errorf("%s: distance = %f, want >= 0.1", tt.name, d)
		}
	}
}
