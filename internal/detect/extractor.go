package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Binary threshold applied to the raw MOG2 output. MOG2 marks detected
// shadows at 127, so thresholding at 250 folds them into the background.
const shadowThreshold = 250

// ForegroundExtractor turns raw frames into cleaned binary foreground masks.
// It owns an adaptive background model that is seeded by the first frames it
// observes and mutated on every Apply call; the model is never exposed.
type ForegroundExtractor struct {
	model  gocv.BackgroundSubtractorMOG2
	kernel gocv.Mat
}

// NewForegroundExtractor builds an extractor with the given background model
// history depth, per-pixel variance threshold, and structuring element size.
func NewForegroundExtractor(history int, varThreshold float64, kernelSize int) *ForegroundExtractor {
	return &ForegroundExtractor{
		model:  gocv.NewBackgroundSubtractorMOG2WithParams(history, varThreshold, true),
		kernel: gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(kernelSize, kernelSize)),
	}
}

// Apply updates the background model with frame and writes the cleaned
// binary mask into mask. The mask always matches the frame dimensions.
// Closing runs before opening: fragments must be bridged before the opening
// erodes speckle noise, or the erosion splits blobs further.
func (e *ForegroundExtractor) Apply(frame gocv.Mat, mask *gocv.Mat) {
	e.model.Apply(frame, mask)
	gocv.Threshold(*mask, mask, shadowThreshold, 255, gocv.ThresholdBinary)
	gocv.MorphologyExWithParams(*mask, mask, gocv.MorphClose, e.kernel, 2, gocv.BorderConstant)
	gocv.MorphologyExWithParams(*mask, mask, gocv.MorphOpen, e.kernel, 1, gocv.BorderConstant)
}

// Close releases the native background model and kernel.
func (e *ForegroundExtractor) Close() {
	e.model.Close()
	e.kernel.Close()
}
