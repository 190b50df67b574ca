package main

import (
	"fmt"
	"log"
	"os"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/joho/godotenv"
)

var version = "1.0.0"

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Setup(cfg.Logger()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	c := newCLI(cfg)
	if err := c.execute(c.root()); err != nil {
		l := logger.WithComponent("cmd")
		l.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
