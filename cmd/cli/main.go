// Package main is the entry point for the tnved CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tnved-tariffs/cmd/cli/cmd"
	"tnved-tariffs/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		os.Exit(1)
	}
}
