package video

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"edgedevice/internal/logger"
)

// Source is the read contract shared by real capture devices and the
// synthetic generator.
type Source interface {
	// Read fills dst with the next frame. False means end-of-stream.
	Read(dst *gocv.Mat) bool
	// SeekToStart rewinds a finite source to its first frame.
	SeekToStart()
	IsOpened() bool
	Close() error
}

// Capture wraps a gocv video capture (file or device).
type Capture struct {
	capture *gocv.VideoCapture
}

func (c *Capture) Read(dst *gocv.Mat) bool {
	return c.capture.Read(dst)
}

func (c *Capture) SeekToStart() {
	c.capture.Set(gocv.VideoCapturePosFrames, 0)
}

func (c *Capture) IsOpened() bool {
	return c.capture.IsOpened()
}

func (c *Capture) Close() error {
	return c.capture.Close()
}

// Open opens the named video file, falling back once to the default capture
// device when the file is missing or unreadable. Both failing is fatal.
func Open(path string, log *logger.Logger) (Source, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			capture, err := gocv.VideoCaptureFile(path)
			if err == nil {
				if capture.IsOpened() {
					log.Info("Video loaded: %s", path)
					log.Info("Video: %.0fx%.0f @ %.0ffps, %.0f frames",
						capture.Get(gocv.VideoCaptureFrameWidth),
						capture.Get(gocv.VideoCaptureFrameHeight),
						capture.Get(gocv.VideoCaptureFPS),
						capture.Get(gocv.VideoCaptureFrameCount))
					return &Capture{capture: capture}, nil
				}
				capture.Close()
			}
			log.Warning("Could not open video file %s, falling back to capture device", path)
		} else {
			log.Warning("Video file %s not found, falling back to capture device", path)
		}
	}

	capture, err := gocv.VideoCaptureDevice(0)
	if err != nil {
		return nil, fmt.Errorf("no video source available: %w", err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("no video source available")
	}
	log.Info("Using default capture device")
	return &Capture{capture: capture}, nil
}
