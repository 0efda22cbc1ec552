// Package gesture provides gesture definitions, the persistent catalog, and
// the landmark-distance matcher.
package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
)

// Definition describes one configured gesture. Topology is a list of
// landmark-index chains; confidence is scored over consecutive pairs within
// each chain and the best chain wins.
type Definition struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Topology  [][]int `json:"landmarks"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

// Validate checks that a definition is usable by the matcher.
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("gesture id is required")
	}
	if d.Threshold < 0 || d.Threshold > 1 {
		return fmt.Errorf("gesture %s: threshold %f out of range [0,1]", d.ID, d.Threshold)
	}
	if len(d.Topology) == 0 {
		return fmt.Errorf("gesture %s: topology is empty", d.ID)
	}
	for _, chain := range d.Topology {
		if len(chain) < 2 {
			return fmt.Errorf("gesture %s: topology chain needs at least two landmarks", d.ID)
		}
		for _, idx := range chain {
			if idx < 0 || idx >= detector.NumLandmarks {
				return fmt.Errorf("gesture %s: landmark index %d out of range", d.ID, idx)
			}
		}
	}
	return nil
}

// Detection is one above-threshold observation of a gesture in a frame.
// Detections are ephemeral: the dispatch loop owns them for one fan-out cycle
// and query methods return copies.
type Detection struct {
	GestureID  string                 `json:"gesture_id"`
	Name       string                 `json:"name"`
	Confidence float64                `json:"confidence"`
	HandIndex  int                    `json:"hand_index"`
	Landmarks  detector.HandLandmarks `json:"landmarks"`
	Timestamp  time.Time              `json:"timestamp"`
}

// DefaultDefinitions returns the built-in gesture set used when no catalog
// file exists or the existing one cannot be parsed.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			ID:        "pinch",
			Name:      "Pinch Gesture",
			Topology:  [][]int{{detector.ThumbTip, detector.IndexTip}},
			Threshold: 0.85,
			Action:    "pinch_action",
		},
		{
			ID:        "palm",
			Name:      "Open Palm",
			Topology:  [][]int{{detector.Wrist, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}},
			Threshold: 0.80,
			Action:    "palm_action",
		},
		{
			ID:        "fist",
			Name:      "Closed Fist",
			Topology:  [][]int{{detector.Wrist, detector.MiddleMCP}},
			Threshold: 0.90,
			Action:    "fist_action",
		},
		{
			ID:        "point",
			Name:      "Pointing Gesture",
			Topology:  [][]int{{detector.IndexTip, detector.IndexMCP}},
			Threshold: 0.85,
			Action:    "point_action",
		},
		{
			ID:        "victory",
			Name:      "Victory Sign",
			Topology:  [][]int{{detector.IndexTip, detector.MiddleTip}},
			Threshold: 0.85,
			Action:    "victory_action",
		},
	}
}
