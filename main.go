package main

import (
	"fmt"
	"os"

	"packsmith/cmd"
	"packsmith/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// Initialize the logger first
	if err := logger.InitLogger(logger.DefaultLogFile); err != nil {
		fmt.Fprintln(os.Stderr, "logging disabled:", err)
	}
	defer logger.Sync() // Ensure logs are flushed on exit
	cmd.Execute()
}
