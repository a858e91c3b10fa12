package main

import (
	"os"

	"github.com/Franka-Beyer/HSprakt/cmd"
	"github.com/Franka-Beyer/HSprakt/logger"
)

func main() {
	logger.SetupLogging()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
