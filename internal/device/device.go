package device

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"edgedevice/internal/annotate"
	"edgedevice/internal/config"
	"edgedevice/internal/detect"
	"edgedevice/internal/logger"
	"edgedevice/internal/publish"
	"edgedevice/internal/video"
)

// State is the device lifecycle phase.
type State int32

const (
	StateStopped State = iota
	StateConnecting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Progress summary interval, in cycles.
const statsInterval = 20

// Device drives the per-cycle pipeline: read a frame, extract foreground,
// classify, annotate, publish, pace to the target frame rate. The pipeline
// is a single goroutine; the background model and the counters are touched
// by it alone.
type Device struct {
	cfg *config.Config
	log *logger.Logger

	bus        publish.Transport
	publisher  *publish.CyclePublisher
	extractor  *detect.ForegroundExtractor
	classifier *detect.Classifier

	// openSource is swapped in tests to inject a synthetic source.
	openSource func() (video.Source, error)
	source     video.Source

	// settleDelay gives a real capture device time to stabilize before the
	// first cycle.
	settleDelay time.Duration

	state           atomic.Int32
	framesProcessed atomic.Int64
	alertsEmitted   atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

func New(cfg *config.Config, log *logger.Logger, bus publish.Transport) *Device {
	d := &Device{
		cfg:         cfg,
		log:         log,
		bus:         bus,
		publisher:   publish.NewCyclePublisher(cfg, log, bus),
		extractor:   detect.NewForegroundExtractor(cfg.ModelHistory, cfg.VarThreshold, cfg.KernelSize),
		classifier:  detect.NewClassifier(cfg.MinContourArea),
		settleDelay: time.Second,
		stop:        make(chan struct{}),
	}
	d.openSource = func() (video.Source, error) {
		return video.Open(cfg.VideoSource, log)
	}
	return d
}

// State returns the current lifecycle phase.
func (d *Device) State() State {
	return State(d.state.Load())
}

func (d *Device) setState(s State) {
	d.state.Store(int32(s))
}

// FramesProcessed returns the number of completed cycles.
func (d *Device) FramesProcessed() int64 {
	return d.framesProcessed.Load()
}

// AlertsEmitted returns the number of alerts published so far.
func (d *Device) AlertsEmitted() int64 {
	return d.alertsEmitted.Load()
}

// Stop requests a graceful shutdown. The request takes effect at the top of
// the next cycle; the cycle in flight always completes.
func (d *Device) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Run executes the lifecycle: connect the bus and open the video source,
// then process cycles until Stop is called. Connection or source failure
// aborts back to stopped without entering the running state.
func (d *Device) Run() error {
	d.setState(StateConnecting)

	if err := d.bus.Connect(); err != nil {
		d.setState(StateStopped)
		return fmt.Errorf("bus connect: %w", err)
	}

	source, err := d.openSource()
	if err != nil {
		d.bus.Disconnect()
		d.setState(StateStopped)
		return fmt.Errorf("open video source: %w", err)
	}
	d.source = source

	time.Sleep(d.settleDelay)

	d.setState(StateRunning)
	d.log.Info("Processing at %d fps", d.cfg.TargetFPS)
	d.runLoop()

	d.setState(StateStopping)
	d.source.Close()
	d.bus.Disconnect()
	d.extractor.Close()
	d.log.Info("Summary: frames %d | alerts %d", d.FramesProcessed(), d.AlertsEmitted())
	d.setState(StateStopped)
	return nil
}

func (d *Device) runLoop() {
	period := time.Second / time.Duration(d.cfg.TargetFPS)

	frame := gocv.NewMat()
	defer frame.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	for {
		select {
		case <-d.stop:
			return
		default:
		}

		start := time.Now()

		if ok := d.source.Read(&frame); !ok || frame.Empty() {
			// End of a finite source: loop playback instead of terminating.
			d.source.SeekToStart()
			continue
		}

		d.cycle(frame, &mask)

		if remaining := period - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// cycle runs detect → annotate → publish for one frame and advances the
// counters. frameID equals framesProcessed at publish time, so analytics
// records carry the gapless sequence 0,1,2,...
func (d *Device) cycle(frame gocv.Mat, mask *gocv.Mat) {
	frameID := d.framesProcessed.Load()

	d.extractor.Apply(frame, mask)
	detections := d.classifier.Classify(*mask)

	annotated := annotate.Annotate(frame, detections, frameID)
	d.publisher.PublishVideo(annotated)
	annotated.Close()

	if err := d.publisher.PublishAnalytics(detections, frameID); err != nil {
		d.log.Warning("Analytics publish failed: %v", err)
	}
	d.alertsEmitted.Add(int64(d.publisher.CheckAlerts(detections)))

	processed := d.framesProcessed.Add(1)
	if processed%statsInterval == 0 {
		d.log.Info("Stats: frames %d | alerts %d | objects %d",
			processed, d.AlertsEmitted(), len(detections))
	}
}
