package video

import (
	"image"
	"image/color"
	"math/rand"

	"gocv.io/x/gocv"
)

// mockObject is a rectangle bouncing around the synthetic scene.
type mockObject struct {
	clr    color.RGBA
	x, y   float64
	width  int
	height int
	vx, vy float64
}

var mockPalette = []color.RGBA{
	{R: 255, G: 100, B: 100}, // person-sized blob
	{R: 100, G: 100, B: 255}, // car-sized blob
	{R: 100, G: 255, B: 100},
	{R: 255, G: 255, B: 100},
	{R: 255, G: 100, B: 255},
	{R: 100, G: 255, B: 255},
}

// MockSource generates synthetic frames with moving shapes so the pipeline
// can run without camera hardware. Frames are fully determined by the seed:
// two sources with the same seed and dimensions produce identical streams,
// and SeekToStart replays from the beginning.
type MockSource struct {
	width      int
	height     int
	seed       int64
	rng        *rand.Rand
	objects    []mockObject
	frameCount int
	closed     bool
}

// NewMockSource creates a synthetic source with 2-5 moving objects.
func NewMockSource(width, height int, seed int64) *MockSource {
	m := &MockSource{width: width, height: height, seed: seed}
	m.reset()
	return m
}

func (m *MockSource) reset() {
	m.rng = rand.New(rand.NewSource(m.seed))
	m.frameCount = 0

	count := 2 + m.rng.Intn(4)
	m.objects = make([]mockObject, 0, count)
	for i := 0; i < count; i++ {
		size := 40 + m.rng.Intn(120)
		obj := mockObject{
			clr:    mockPalette[m.rng.Intn(len(mockPalette))],
			width:  size,
			height: int(float64(size) * (0.8 + m.rng.Float64()*0.7)),
			vx:     m.rng.Float64()*6 - 3,
			vy:     m.rng.Float64()*6 - 3,
		}
		obj.x = float64(m.rng.Intn(maxInt(1, m.width-obj.width)))
		obj.y = float64(m.rng.Intn(maxInt(1, m.height-obj.height)))
		m.objects = append(m.objects, obj)
	}
}

// step advances object positions with bounce physics.
func (m *MockSource) step() {
	for i := range m.objects {
		obj := &m.objects[i]
		obj.x += obj.vx
		obj.y += obj.vy

		if obj.x <= 0 || obj.x+float64(obj.width) >= float64(m.width) {
			obj.vx = -obj.vx
			obj.x = clampFloat(obj.x, 0, float64(m.width-obj.width))
		}
		if obj.y <= 0 || obj.y+float64(obj.height) >= float64(m.height) {
			obj.vy = -obj.vy
			obj.y = clampFloat(obj.y, 0, float64(m.height-obj.height))
		}

		// Occasional direction change keeps the background model honest.
		if m.rng.Float64() < 0.02 {
			obj.vx = m.rng.Float64()*6 - 3
			obj.vy = m.rng.Float64()*6 - 3
		}
	}
}

// render draws the gradient background and the objects into a fresh Mat.
func (m *MockSource) render() gocv.Mat {
	frame := gocv.NewMatWithSize(m.height, m.width, gocv.MatTypeCV8UC3)

	// Vertical gradient in 16px bands simulates room lighting.
	for y := 0; y < m.height; y += 16 {
		gray := 40 + y*30/m.height
		band := image.Rect(0, y, m.width, minInt(y+16, m.height))
		gocv.Rectangle(&frame, band, color.RGBA{R: uint8(gray + 10), G: uint8(gray + 5), B: uint8(gray)}, -1)
	}

	for _, obj := range m.objects {
		r := image.Rect(int(obj.x), int(obj.y), int(obj.x)+obj.width, int(obj.y)+obj.height)
		gocv.Rectangle(&frame, r, obj.clr, -1)
		gocv.Rectangle(&frame, r, color.RGBA{R: 255, G: 255, B: 255}, 2)
	}

	return frame
}

func (m *MockSource) Read(dst *gocv.Mat) bool {
	if m.closed {
		return false
	}
	m.step()
	frame := m.render()
	frame.CopyTo(dst)
	frame.Close()
	m.frameCount++
	return true
}

func (m *MockSource) SeekToStart() {
	m.reset()
}

func (m *MockSource) IsOpened() bool {
	return !m.closed
}

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
