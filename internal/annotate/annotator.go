package annotate

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"edgedevice/internal/models"
)

const (
	boxOpacity      = 0.15
	borderThickness = 3
	accentThickness = 4
	statusBarHeight = 40
	labelFontScale  = 0.6
	hudFontScale    = 0.7
)

var (
	statusBarColor   = color.RGBA{R: 20, G: 20, B: 20}
	liveTextColor    = color.RGBA{R: 100, G: 255, B: 0}
	counterTextColor = color.RGBA{R: 255, G: 200, B: 0}
	indicatorColor   = color.RGBA{R: 255, G: 0, B: 0}
	labelTextColor   = color.RGBA{}
)

// Annotate renders detection boxes and the status HUD onto a copy of frame.
// The input frame is never mutated; the caller owns the returned Mat and
// must Close it. frameCount drives the blinking recording indicator.
func Annotate(frame gocv.Mat, detections []models.Detection, frameCount int64) gocv.Mat {
	base := frame.Clone()
	overlay := frame.Clone()
	defer overlay.Close()

	for _, det := range detections {
		clr := det.Label.Color()
		box := image.Rect(det.BBox.X, det.BBox.Y, det.BBox.X+det.BBox.Width, det.BBox.Y+det.BBox.Height)

		// Filled box goes on the overlay so the blend leaves it translucent.
		gocv.Rectangle(&overlay, box, clr, -1)

		gocv.Rectangle(&base, box, clr, borderThickness)
		drawCornerAccents(&base, box, clr)
		drawLabelTag(&base, det, clr)
	}

	out := gocv.NewMat()
	gocv.AddWeighted(overlay, boxOpacity, base, 1-boxOpacity, 0, &out)
	base.Close()

	drawStatusBar(&out, len(detections), frameCount)
	return out
}

// drawCornerAccents draws four pairs of short strokes at the box corners.
func drawCornerAccents(img *gocv.Mat, box image.Rectangle, clr color.RGBA) {
	length := box.Dx() / 4
	if box.Dy()/4 < length {
		length = box.Dy() / 4
	}
	if length > 20 {
		length = 20
	}

	x1, y1, x2, y2 := box.Min.X, box.Min.Y, box.Max.X, box.Max.Y
	gocv.Line(img, image.Pt(x1, y1), image.Pt(x1+length, y1), clr, accentThickness)
	gocv.Line(img, image.Pt(x1, y1), image.Pt(x1, y1+length), clr, accentThickness)
	gocv.Line(img, image.Pt(x2, y1), image.Pt(x2-length, y1), clr, accentThickness)
	gocv.Line(img, image.Pt(x2, y1), image.Pt(x2, y1+length), clr, accentThickness)
	gocv.Line(img, image.Pt(x1, y2), image.Pt(x1+length, y2), clr, accentThickness)
	gocv.Line(img, image.Pt(x1, y2), image.Pt(x1, y2-length), clr, accentThickness)
	gocv.Line(img, image.Pt(x2, y2), image.Pt(x2-length, y2), clr, accentThickness)
	gocv.Line(img, image.Pt(x2, y2), image.Pt(x2, y2-length), clr, accentThickness)
}

// drawLabelTag draws a filled tag with "{LABEL} {confidence%}" above the
// box's top-left corner.
func drawLabelTag(img *gocv.Mat, det models.Detection, clr color.RGBA) {
	text := fmt.Sprintf("%s %.0f%%", strings.ToUpper(string(det.Label)), det.Confidence*100)
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, labelFontScale, 2)

	x, y := det.BBox.X, det.BBox.Y
	gocv.Rectangle(img, image.Rect(x, y-size.Y-10, x+size.X+10, y), clr, -1)
	gocv.PutText(img, text, image.Pt(x+5, y-5), gocv.FontHersheySimplex, labelFontScale, labelTextColor, 2)
}

// drawStatusBar overlays the fixed-height HUD: live timestamp, object count,
// and a recording dot blinking on frame parity.
func drawStatusBar(img *gocv.Mat, objectCount int, frameCount int64) {
	width := img.Cols()

	gocv.Rectangle(img, image.Rect(0, 0, width, statusBarHeight), statusBarColor, -1)

	live := "LIVE | " + time.Now().Format("15:04:05")
	gocv.PutText(img, live, image.Pt(10, 28), gocv.FontHersheySimplex, hudFontScale, liveTextColor, 2)

	counter := fmt.Sprintf("Objects: %d", objectCount)
	gocv.PutText(img, counter, image.Pt(width-150, 28), gocv.FontHersheySimplex, hudFontScale, counterTextColor, 2)

	if frameCount%2 == 0 {
		gocv.Circle(img, image.Pt(width-180, 22), 8, indicatorColor, -1)
	}
}
