package gesture

import (
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
)

// Matcher scores detected hands against the catalog's gesture definitions.
// It is stateless: every Evaluate call reads the current definition set, so
// catalog updates take effect on the next frame.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a Matcher backed by the given catalog.
func NewMatcher(catalog *Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Evaluate returns the set of gestures detected at or above their thresholds
// in the given hands. When two hands match the same gesture id, only the
// higher-confidence detection is kept. Below-threshold scores are treated as
// absent, never as low-confidence detections.
func (m *Matcher) Evaluate(hands []detector.HandLandmarks, ts time.Time) map[string]Detection {
	if len(hands) == 0 {
		return nil
	}

	detections := make(map[string]Detection)
	for _, def := range m.catalog.Definitions() {
		for handIdx := range hands {
			hand := &hands[handIdx]
			conf := Confidence(hand, def)
			if conf < def.Threshold {
				continue
			}
			if prev, ok := detections[def.ID]; ok && prev.Confidence >= conf {
				continue
			}
			detections[def.ID] = Detection{
				GestureID:  def.ID,
				Name:       def.Name,
				Confidence: conf,
				HandIndex:  handIdx,
				Landmarks:  *hand,
				Timestamp:  ts,
			}
		}
	}

	if len(detections) == 0 {
		return nil
	}
	return detections
}

// Confidence scores one hand against one definition. Each topology chain
// contributes the average planar distance over its consecutive landmark
// pairs, mapped to [0,1] via 1 - min(10*avg, 1); the best chain wins.
func Confidence(hand *detector.HandLandmarks, def Definition) float64 {
	var confidence float64
	for _, chain := range def.Topology {
		if len(chain) < 2 {
			continue
		}

		var total float64
		for i := 0; i < len(chain)-1; i++ {
			total += hand.Distance2D(chain[i], chain[i+1])
		}
		avg := total / float64(len(chain)-1)

		score := 1.0 - min(avg*10, 1.0)
		if score > confidence {
			confidence = score
		}
	}
	return confidence
}
