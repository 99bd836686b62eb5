package game

// Box is an axis-aligned bounding box in frame pixel coordinates.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() int {
	return (b.X1 + b.X2) / 2
}

// Valid reports whether the box has positive width and height.
func (b Box) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Width returns the box width.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the box height.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Detection is one classifier output for one frame.
type Detection struct {
	Gesture    Gesture `json:"gesture"`
	Label      string  `json:"label"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// FilterConfident returns the detections whose confidence is at least
// threshold, preserving their order.
func FilterConfident(dets []Detection, threshold float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}
