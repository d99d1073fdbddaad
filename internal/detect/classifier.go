package detect

import (
	"math"
	"sort"

	"gocv.io/x/gocv"

	"edgedevice/internal/models"
)

const (
	// maxDetections caps the per-frame output, largest boxes first.
	maxDetections = 10
	// minBoxSide rejects thin noise strips before classification.
	minBoxSide = 30
)

// shapeRule classifies a contour from its aspect ratio (width/height) and
// enclosed area. Rules are evaluated top to bottom; first match wins.
type shapeRule struct {
	matches    func(aspect, area float64) bool
	label      models.Label
	confidence func(area float64) float64
}

var shapeRules = []shapeRule{
	{
		matches:    func(aspect, area float64) bool { return aspect > 1.5 && area > 8000 },
		label:      models.LabelCar,
		confidence: func(area float64) float64 { return math.Min(0.65+area/100000, 0.95) },
	},
	{
		// Unreachable: any contour matching this already matched the car
		// rule above. Kept in place because the cascade order is the
		// contract; reordering would relabel live streams.
		matches:    func(aspect, area float64) bool { return aspect > 2.0 && area > 15000 },
		label:      models.LabelTruck,
		confidence: func(area float64) float64 { return math.Min(0.60+area/150000, 0.90) },
	},
	{
		matches:    func(aspect, area float64) bool { return aspect < 0.7 },
		label:      models.LabelPerson,
		confidence: func(area float64) float64 { return math.Min(0.55+area/30000, 0.85) },
	},
	{
		matches:    func(aspect, area float64) bool { return area > 5000 },
		label:      models.LabelVehicle,
		confidence: func(area float64) float64 { return math.Min(0.50+area/80000, 0.80) },
	},
}

// Classifier converts a foreground mask into labeled, confidence-scored
// bounding boxes using contour geometry. It is stateless.
type Classifier struct {
	minArea float64
}

// NewClassifier creates a classifier rejecting contours below minArea px².
func NewClassifier(minArea float64) *Classifier {
	return &Classifier{minArea: minArea}
}

// Classify extracts external contours from the mask and returns at most
// maxDetections detections ordered by descending bounding-box area. A mask
// with no qualifying contours yields an empty (non-nil) slice.
func (c *Classifier) Classify(mask gocv.Mat) []models.Detection {
	detections := make([]models.Detection, 0)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		area := gocv.ContourArea(contour)
		if area < c.minArea {
			continue
		}

		rect := gocv.BoundingRect(contour)
		width, height := rect.Dx(), rect.Dy()
		if width < minBoxSide || height < minBoxSide {
			continue
		}

		label, confidence, ok := classifyShape(float64(width)/float64(height), area)
		if !ok {
			continue
		}

		detections = append(detections, models.Detection{
			Label:      label,
			Confidence: confidence,
			BBox: models.BBox{
				X:      rect.Min.X,
				Y:      rect.Min.Y,
				Width:  width,
				Height: height,
			},
		})
	}

	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].BBox.Area() > detections[j].BBox.Area()
	})
	if len(detections) > maxDetections {
		detections = detections[:maxDetections]
	}
	return detections
}

// classifyShape runs the decision cascade. The returned confidence is
// rounded to 2 decimal places. ok is false when no rule matches and the
// contour is discarded.
func classifyShape(aspect, area float64) (models.Label, float64, bool) {
	for _, rule := range shapeRules {
		if rule.matches(aspect, area) {
			return rule.label, round2(rule.confidence(area)), true
		}
	}
	return "", 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
