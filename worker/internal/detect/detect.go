// Package detect wraps the detection capability behind a small interface
// and reduces raw per-box detections to a per-label confidence map.
package detect

import "context"

// Detection is one raw box produced by the capability for an image.
// Boxes below the capability's own internal threshold are already filtered.
type Detection struct {
	Label      string
	Confidence float64
}

// Capability is the opaque detection function: image bytes in, raw
// detections out. Implementations apply their own internal noise threshold;
// compliance threshold decisions belong to the result sink.
type Capability interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// ConfidenceMap maps a label to the maximum confidence observed for it
// across all raw detections in one image. Scoped to one Detect call.
type ConfidenceMap map[string]float64

// Get returns the confidence for a label, 0 when absent.
func (m ConfidenceMap) Get(label string) float64 {
	return m[label]
}

// Scores reduces raw detections to a per-label maximum-confidence map.
// The capability is invoked once per image; this amortizes inference cost
// across all tasks evaluated for the event.
func Scores(dets []Detection) ConfidenceMap {
	scores := make(ConfidenceMap, len(dets))
	for _, d := range dets {
		if d.Confidence > scores[d.Label] {
			scores[d.Label] = d.Confidence
		}
	}
	return scores
}
