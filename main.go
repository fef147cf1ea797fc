package main

import (
	"fmt"
	"os"

	"github.com/d64tools/d64tools/cmd"
	"github.com/d64tools/d64tools/internal/config"
	"github.com/d64tools/d64tools/internal/logger"
)

func main() {
	// 1. Initialize application configuration
	configFile := os.Getenv("D64TOOLS_CONFIG")
	if err := config.Initialize(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging based on application configuration
	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	// 3. Hand off to the command tree
	cmd.Execute()

	// Ensure logs are flushed before exit
	logger.Sync()
}

// initLogging initializes the logger based on configuration settings
func initLogging() error {
	logConfig := logger.LoggerConfig{
		Debug:     config.Instance.Debug,
		LogFormat: config.Instance.LogFormat,
		LogFile:   config.Instance.LogFile,
	}

	return logger.InitLogger(logConfig)
}
