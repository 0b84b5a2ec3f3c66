package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/curricula/gradereport/internal/cli"
	"github.com/curricula/gradereport/internal/logging"
)

// main is the entry point for the gradereport CLI binary.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(os.Stderr, logging.LevelWarn)
	if err := cli.Execute(ctx, os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
