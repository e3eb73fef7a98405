// Command etaweb serves the shipment ETA accuracy report API: dataset
// upload, filtered report generation, and CSV download.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"etacli/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		application.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
