package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	BrokerHost     string
	BrokerPort     int
	ClientID       string
	VideoTopic     string
	AnalyticsTopic string
	AlertsTopic    string

	FrameWidth  int // published frame width after resize
	FrameHeight int
	TargetFPS   int
	JPEGQuality int

	ModelHistory   int     // background model history depth
	VarThreshold   float64 // per-pixel variance threshold
	KernelSize     int     // morphology structuring element size
	MinContourArea float64

	AlertThreshold float64

	VideoSource  string // path to a video file; empty means default capture device
	LogDirectory string
}

func Load() *Config {
	cfg := &Config{
		BrokerHost:     getEnv("MQTT_BROKER", "localhost"),
		BrokerPort:     getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "edge_device_v2"),
		VideoTopic:     getEnv("TOPIC_VIDEO", "video/stream"),
		AnalyticsTopic: getEnv("TOPIC_ANALYTICS", "analytics/data"),
		AlertsTopic:    getEnv("TOPIC_ALERTS", "analytics/alerts"),
		FrameWidth:     getEnvAsInt("FRAME_WIDTH", 640),
		FrameHeight:    getEnvAsInt("FRAME_HEIGHT", 480),
		TargetFPS:      getEnvAsInt("FPS", 8),
		JPEGQuality:    getEnvAsInt("JPEG_QUALITY", 75),
		ModelHistory:   getEnvAsInt("MODEL_HISTORY", 500),
		VarThreshold:   getEnvAsFloat("VAR_THRESHOLD", 50),
		KernelSize:     getEnvAsInt("KERNEL_SIZE", 5),
		MinContourArea: getEnvAsFloat("MIN_CONTOUR_AREA", 2000),
		AlertThreshold: getEnvAsFloat("ALERT_THRESHOLD", 0.5),
		VideoSource:    getEnv("VIDEO_SOURCE", ""),
		LogDirectory:   getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}

	// The frame pacer divides by the target rate.
	if cfg.TargetFPS < 1 {
		cfg.TargetFPS = 1
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
