package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"edgedevice/internal/app"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	videoSource := ""
	if len(os.Args) > 1 {
		videoSource = os.Args[1]
	}

	application := app.NewApp(videoSource)

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start edge device: %v", err)
	}
}
