package detect

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"edgedevice/internal/models"
)

var white = color.RGBA{R: 255, G: 255, B: 255}

func emptyMask(rows, cols int) gocv.Mat {
	mask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return mask
}

func fillRect(mask *gocv.Mat, x, y, w, h int) {
	gocv.Rectangle(mask, image.Rect(x, y, x+w, y+h), white, -1)
}

func TestClassifyShape_Cascade(t *testing.T) {
	tests := []struct {
		name       string
		aspect     float64
		area       float64
		label      models.Label
		confidence float64
	}{
		{"wide large blob is a car", 1.8, 20000, models.LabelCar, 0.85},
		{"car confidence capped", 1.8, 90000, models.LabelCar, 0.95},
		{"car at area ten thousand", 2.0, 10000, models.LabelCar, 0.75},
		{"tall blob is a person", 0.5, 3000, models.LabelPerson, 0.65},
		{"person confidence capped", 0.5, 30000, models.LabelPerson, 0.85},
		{"boxy large blob is a vehicle", 1.0, 80000, models.LabelVehicle, 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence, ok := classifyShape(tt.aspect, tt.area)
			if !ok {
				t.Fatalf("classifyShape(%v, %v) discarded, expected %s", tt.aspect, tt.area, tt.label)
			}
			if label != tt.label {
				t.Errorf("classifyShape(%v, %v) = %s, expected %s", tt.aspect, tt.area, label, tt.label)
			}
			if confidence != tt.confidence {
				t.Errorf("classifyShape(%v, %v) confidence = %v, expected %v", tt.aspect, tt.area, confidence, tt.confidence)
			}
		})
	}
}

// The truck rule is strictly narrower than the car rule evaluated before it,
// so a contour satisfying both must come out as a car.
func TestClassifyShape_CarBeatsTruck(t *testing.T) {
	label, confidence, ok := classifyShape(2.5, 20000)
	if !ok {
		t.Fatal("expected a detection")
	}
	if label != models.LabelCar {
		t.Errorf("expected car, got %s", label)
	}
	if confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", confidence)
	}
}

func TestClassifyShape_Discards(t *testing.T) {
	tests := []struct {
		name   string
		aspect float64
		area   float64
	}{
		{"boxy small blob", 1.0, 4000},
		{"wide but small", 1.8, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := classifyShape(tt.aspect, tt.area); ok {
				t.Errorf("classifyShape(%v, %v) produced a detection, expected discard", tt.aspect, tt.area)
			}
		})
	}
}

func TestClassifyShape_ConfidenceBounds(t *testing.T) {
	for _, aspect := range []float64{0.3, 0.5, 1.0, 1.6, 2.5} {
		for _, area := range []float64{2000, 6000, 10000, 50000, 500000} {
			_, confidence, ok := classifyShape(aspect, area)
			if !ok {
				continue
			}
			if confidence < 0 || confidence > 1 {
				t.Errorf("classifyShape(%v, %v) confidence %v out of [0,1]", aspect, area, confidence)
			}
			if round2(confidence) != confidence {
				t.Errorf("classifyShape(%v, %v) confidence %v not rounded to 2 decimals", aspect, area, confidence)
			}
		}
	}
}

func TestClassify_EmptyMask(t *testing.T) {
	mask := emptyMask(480, 640)
	defer mask.Close()

	detections := NewClassifier(2000).Classify(mask)
	if detections == nil {
		t.Fatal("expected non-nil slice for empty mask")
	}
	if len(detections) != 0 {
		t.Errorf("expected no detections, got %d", len(detections))
	}
}

func TestClassify_SingleBlob(t *testing.T) {
	mask := emptyMask(480, 640)
	defer mask.Close()
	fillRect(&mask, 100, 100, 300, 150)

	detections := NewClassifier(2000).Classify(mask)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}

	det := detections[0]
	if det.Label != models.LabelCar {
		t.Errorf("expected car, got %s", det.Label)
	}
	if det.Confidence < 0.65 || det.Confidence > 0.95 {
		t.Errorf("car confidence %v outside formula range", det.Confidence)
	}
	if det.BBox.Width < 30 || det.BBox.Height < 30 {
		t.Errorf("bbox %+v below minimum side", det.BBox)
	}
	if det.BBox.X < 0 || det.BBox.Y < 0 ||
		det.BBox.X+det.BBox.Width > 640 || det.BBox.Y+det.BBox.Height > 480 {
		t.Errorf("bbox %+v outside frame bounds", det.BBox)
	}
}

func TestClassify_TallBlobIsPerson(t *testing.T) {
	mask := emptyMask(480, 640)
	defer mask.Close()
	fillRect(&mask, 200, 100, 60, 160)

	detections := NewClassifier(2000).Classify(mask)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	if detections[0].Label != models.LabelPerson {
		t.Errorf("expected person, got %s", detections[0].Label)
	}
}

func TestClassify_RejectsSmallAndThin(t *testing.T) {
	mask := emptyMask(480, 640)
	defer mask.Close()
	fillRect(&mask, 50, 50, 40, 40)   // area below minimum
	fillRect(&mask, 50, 300, 300, 20) // thin strip, height < 30
	fillRect(&mask, 400, 50, 20, 300) // thin strip, width < 30

	detections := NewClassifier(2000).Classify(mask)
	if len(detections) != 0 {
		t.Errorf("expected all blobs rejected, got %d detections", len(detections))
	}
}

func TestClassify_SortedAndTruncated(t *testing.T) {
	mask := emptyMask(640, 640)
	defer mask.Close()

	// 12 boxy blobs of decreasing size laid out on a grid.
	size := 95
	placed := 0
	for row := 0; row < 4 && placed < 12; row++ {
		for col := 0; col < 5 && placed < 12; col++ {
			fillRect(&mask, 10+col*120, 20+row*130, size, size)
			size -= 2
			placed++
		}
	}

	detections := NewClassifier(2000).Classify(mask)
	if len(detections) != 10 {
		t.Fatalf("expected truncation to 10, got %d", len(detections))
	}
	for i := 1; i < len(detections); i++ {
		if detections[i].BBox.Area() > detections[i-1].BBox.Area() {
			t.Errorf("detections not sorted by descending area at index %d", i)
		}
	}
}
