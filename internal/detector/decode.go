package detector

import (
	"fmt"
	"sort"

	"github.com/ayusman/rpsref/internal/game"
)

// Candidate is a decoded model box before label mapping.
type Candidate struct {
	ClassID    int
	Box        game.Box
	Confidence float64
}

// Decode converts a YOLO output tensor laid out as [4+classes][anchors]
// (cx, cy, w, h in input pixels followed by per-class scores) into
// candidates scaled to the frame size. Anchors whose best class score is
// below minConfidence are dropped.
func Decode(pred []float32, classes, anchors, inputSize, frameW, frameH int, minConfidence float64) ([]Candidate, error) {
	if want := (4 + classes) * anchors; len(pred) != want {
		return nil, fmt.Errorf("unexpected predictions length: got %d, want %d", len(pred), want)
	}

	scaleX := float32(frameW) / float32(inputSize)
	scaleY := float32(frameH) / float32(inputSize)

	var out []Candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < classes; c++ {
			if s := pred[(4+c)*anchors+i]; s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || float64(bestScore) < minConfidence {
			continue
		}

		cx := pred[i] * scaleX
		cy := pred[anchors+i] * scaleY
		w := pred[2*anchors+i] * scaleX
		h := pred[3*anchors+i] * scaleY

		box := game.Box{
			X1: clamp(int(cx-w/2), 0, frameW),
			Y1: clamp(int(cy-h/2), 0, frameH),
			X2: clamp(int(cx+w/2), 0, frameW),
			Y2: clamp(int(cy+h/2), 0, frameH),
		}
		if !box.Valid() {
			continue
		}

		out = append(out, Candidate{ClassID: best, Box: box, Confidence: float64(bestScore)})
	}

	return out, nil
}

// NMS performs per-class non-maximum suppression, keeping the most
// confident box of every overlapping group. The result is ordered by
// descending confidence.
func NMS(cands []Candidate, iouThreshold float64) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.ClassID == c.ClassID && IoU(k.Box, c.Box) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

// IoU returns the intersection over union of two boxes.
func IoU(a, b game.Box) float64 {
	ix1, iy1 := max(a.X1, b.X1), max(a.Y1, b.Y1)
	ix2, iy2 := min(a.X2, b.X2), min(a.Y2, b.Y2)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}

	inter := float64((ix2 - ix1) * (iy2 - iy1))
	union := float64(a.Width()*a.Height()+b.Width()*b.Height()) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// ToDetections maps candidates to game detections through labels.
func ToDetections(cands []Candidate, labels game.Labels) []game.Detection {
	dets := make([]game.Detection, len(cands))
	for i, c := range cands {
		dets[i] = game.Detection{
			Gesture:    labels.Gesture(c.ClassID),
			Label:      labels.Name(c.ClassID),
			Box:        c.Box,
			Confidence: c.Confidence,
		}
	}
	return dets
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
