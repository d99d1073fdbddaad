package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"edgedevice/internal/config"
	"edgedevice/internal/device"
	"edgedevice/internal/logger"
	"edgedevice/internal/publish"
)

type App struct {
	cfg    *config.Config
	log    *logger.Logger
	device *device.Device
}

// NewApp wires the full pipeline. A non-empty videoSource (the CLI
// positional argument) overrides the configured default source.
func NewApp(videoSource string) *App {
	cfg := config.Load()
	if videoSource != "" {
		cfg.VideoSource = videoSource
	}

	log := logger.NewLogger(cfg)
	bus := publish.NewMQTTBus(cfg, log)

	return &App{
		cfg:    cfg,
		log:    log,
		device: device.New(cfg, log, bus),
	}
}

// Run starts the device and blocks until it stops. SIGINT/SIGTERM trigger a
// graceful shutdown at the next cycle boundary.
func (a *App) Run() error {
	fmt.Println("==================================================")
	fmt.Println("  VIDEO ANALYTICS - EDGE DEVICE")
	fmt.Println("==================================================")
	fmt.Printf("Broker:  %s:%d\n", a.cfg.BrokerHost, a.cfg.BrokerPort)
	fmt.Printf("Output:  %dx%d @ %d fps\n", a.cfg.FrameWidth, a.cfg.FrameHeight, a.cfg.TargetFPS)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		a.log.Info("Interrupt received, stopping")
		a.device.Stop()
	}()

	if err := a.device.Run(); err != nil {
		a.log.Error("Startup failed: %v", err)
		a.log.Info("Tip: make sure the MQTT broker is running")
		return err
	}
	return nil
}
