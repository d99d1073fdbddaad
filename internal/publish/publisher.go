package publish

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"edgedevice/internal/config"
	"edgedevice/internal/logger"
	"edgedevice/internal/models"
)

// CyclePublisher serializes and publishes the three per-cycle artifacts:
// the annotated video frame, the analytics record, and zero or more alerts.
type CyclePublisher struct {
	bus Transport
	log *logger.Logger

	videoTopic     string
	analyticsTopic string
	alertsTopic    string

	width       int
	height      int
	jpegQuality int

	alertThreshold float64
}

func NewCyclePublisher(cfg *config.Config, log *logger.Logger, bus Transport) *CyclePublisher {
	return &CyclePublisher{
		bus:            bus,
		log:            log,
		videoTopic:     cfg.VideoTopic,
		analyticsTopic: cfg.AnalyticsTopic,
		alertsTopic:    cfg.AlertsTopic,
		width:          cfg.FrameWidth,
		height:         cfg.FrameHeight,
		jpegQuality:    cfg.JPEGQuality,
		alertThreshold: cfg.AlertThreshold,
	}
}

// PublishVideo resizes the frame to the output resolution, JPEG-encodes it,
// and publishes the base64 text to the video channel. Failures are reported
// as false and logged; they never abort the cycle.
func (p *CyclePublisher) PublishVideo(frame gocv.Mat) bool {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(p.width, p.height), 0, 0, gocv.InterpolationLinear)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, resized, []int{gocv.IMWriteJpegQuality, p.jpegQuality})
	if err != nil {
		p.log.Warning("Frame encode failed: %v", err)
		return false
	}
	defer buf.Close()

	encoded := base64.StdEncoding.EncodeToString(buf.GetBytes())
	if err := p.bus.Publish(p.videoTopic, encoded); err != nil {
		p.log.Warning("Video publish failed: %v", err)
		return false
	}
	return true
}

// PublishAnalytics builds the analytics record for this cycle and publishes
// it. frameID must equal the frames-processed counter at publish time.
func (p *CyclePublisher) PublishAnalytics(detections []models.Detection, frameID int64) error {
	record := models.AnalyticsRecord{
		Timestamp:   time.Now(),
		FrameID:     frameID,
		ObjectCount: len(detections),
		Detections:  detections,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal analytics record: %w", err)
	}
	return p.bus.Publish(p.analyticsTopic, payload)
}

// CheckAlerts publishes an AlertEvent for every detection whose label is
// alert-worthy and whose confidence clears the threshold. Returns the number
// of alerts published.
func (p *CyclePublisher) CheckAlerts(detections []models.Detection) int {
	count := 0
	for _, det := range detections {
		if !det.Label.Alertable() || det.Confidence < p.alertThreshold {
			continue
		}

		alert := models.AlertEvent{
			Timestamp:  time.Now(),
			Object:     det.Label,
			Confidence: det.Confidence,
			Message:    fmt.Sprintf("%s detected (%.0f%%)", strings.ToUpper(string(det.Label)), det.Confidence*100),
		}

		payload, err := json.Marshal(alert)
		if err != nil {
			p.log.Error("Marshal alert: %v", err)
			continue
		}
		if err := p.bus.Publish(p.alertsTopic, payload); err != nil {
			p.log.Warning("Alert publish failed: %v", err)
			continue
		}

		count++
		p.log.Info("Alert: %s", alert.Message)
	}
	return count
}
