// Package main provides the entry point for the attest integrity checker CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Execute(ctx); err != nil {
		if errors.Is(err, errCorruptionDetected) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
