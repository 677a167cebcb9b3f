// Package shutdown wraps go-sdk/graceful_shutdown the way cmd/main.go uses
// it: block until SIGINT/SIGQUIT/SIGTERM, then let the caller run its own
// cleanup before exiting with the conventional 143 (128 + SIGTERM) code.
package shutdown

import (
	"log/slog"
	"os"

	"github.com/shortlink-org/go-sdk/graceful_shutdown"
	"github.com/shortlink-org/go-sdk/logger"
)

// Wait blocks until the process receives SIGINT, SIGQUIT or SIGTERM, logs
// which one it was, and returns.
func Wait(log logger.Logger) {
	sig := graceful_shutdown.GracefulShutdown()
	log.Info("shutdown signal received", slog.String("signal", sig.String()))
}

// Exit terminates the process with the graceful-termination exit code.
func Exit() {
	os.Exit(143) //nolint:gocritic // exit code 143 is used to indicate graceful termination
}
