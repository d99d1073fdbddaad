package models

import "time"

// BBox is an axis-aligned bounding rectangle in pixel coordinates.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the rectangle area in px².
func (b BBox) Area() int {
	return b.Width * b.Height
}

// Detection represents a classified foreground object in a single frame.
// Detections are created once per contour per cycle and never mutated.
type Detection struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// AnalyticsRecord is the per-cycle payload for the analytics channel.
// FrameID equals the number of frames processed before this cycle, so the
// sequence across cycles is exactly 0,1,2,... with no gaps.
type AnalyticsRecord struct {
	Timestamp   time.Time   `json:"timestamp"`
	FrameID     int64       `json:"frame_id"`
	ObjectCount int         `json:"object_count"`
	Detections  []Detection `json:"detections"`
}

// AlertEvent is published for every detection whose label is alertable and
// whose confidence clears the alert threshold.
type AlertEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Object     Label     `json:"object"`
	Confidence float64   `json:"confidence"`
	Message    string    `json:"message"`
}
