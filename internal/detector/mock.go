package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	hands := make([]HandLandmarks, len(m.hands))
	copy(hands, m.hands)
	return hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// neutralPoints spreads all 21 landmarks over a wide grid so that no
// configured gesture topology scores above its threshold. Preset poses start
// from this layout and pull their defining landmarks together.
func neutralPoints() [NumLandmarks]Point3D {
	var pts [NumLandmarks]Point3D
	for i := 0; i < NumLandmarks; i++ {
		pts[i] = Point3D{
			X: 0.10 + 0.18*float64(i%5),
			Y: 0.10 + 0.18*float64(i/5),
		}
	}
	return pts
}

// NeutralLandmarks returns a hand pose that matches none of the built-in
// gesture definitions.
func NeutralLandmarks() HandLandmarks {
	return HandLandmarks{
		Points:     neutralPoints(),
		Handedness: "Right",
		Score:      0.95,
	}
}

// FistLandmarks returns a pose matching the "fist" definition: the wrist and
// the middle-finger base pulled together.
func FistLandmarks() HandLandmarks {
	h := NeutralLandmarks()
	h.Points[Wrist] = Point3D{X: 0.500, Y: 0.80}
	h.Points[MiddleMCP] = Point3D{X: 0.505, Y: 0.80}
	return h
}

// OpenPalmLandmarks returns a pose matching the "palm" definition: the wrist
// and all four finger bases forming a tight chain.
func OpenPalmLandmarks() HandLandmarks {
	h := NeutralLandmarks()
	h.Points[Wrist] = Point3D{X: 0.500, Y: 0.80}
	h.Points[IndexMCP] = Point3D{X: 0.515, Y: 0.80}
	h.Points[MiddleMCP] = Point3D{X: 0.530, Y: 0.80}
	h.Points[RingMCP] = Point3D{X: 0.545, Y: 0.80}
	h.Points[PinkyMCP] = Point3D{X: 0.560, Y: 0.80}
	return h
}

// VictoryLandmarks returns a pose matching the "victory" definition: index and
// middle fingertips paired.
func VictoryLandmarks() HandLandmarks {
	h := NeutralLandmarks()
	h.Points[IndexTip] = Point3D{X: 0.500, Y: 0.30}
	h.Points[MiddleTip] = Point3D{X: 0.508, Y: 0.30}
	return h
}

// PointLandmarks returns a pose matching the "point" definition: the index
// fingertip near the index base.
func PointLandmarks() HandLandmarks {
	h := NeutralLandmarks()
	h.Points[IndexTip] = Point3D{X: 0.500, Y: 0.30}
	h.Points[IndexMCP] = Point3D{X: 0.508, Y: 0.30}
	return h
}

// PinchLandmarks returns a pose matching the "pinch" definition: thumb and
// index fingertips touching.
func PinchLandmarks() HandLandmarks {
	h := NeutralLandmarks()
	h.Points[ThumbTip] = Point3D{X: 0.500, Y: 0.50}
	h.Points[IndexTip] = Point3D{X: 0.508, Y: 0.50}
	return h
}
