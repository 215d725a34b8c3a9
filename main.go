package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"society/cmd"
	"society/internal/config"
	"society/internal/logger"
)

func main() {
	// A missing .env is fine when the environment is already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Commands report the configuration error themselves
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	mainLogger := logger.WithComponent("main")
	mainLogger.Debug().Msg("Starting society CLI")

	cmd.Execute()
}
