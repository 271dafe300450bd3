package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brittles42/Shelfie/internal/config"
	"github.com/Brittles42/Shelfie/internal/handlers"
	"github.com/Brittles42/Shelfie/internal/ocr"
	"github.com/Brittles42/Shelfie/internal/pipeline"
	"github.com/Brittles42/Shelfie/internal/resolver"
	"github.com/Brittles42/Shelfie/internal/store"
	"github.com/Brittles42/Shelfie/internal/vision"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Shelfie HTTP API",
		Long: `Starts the Shelfie API on the specified port.

The API accepts capture runs (image upload, barcode, or title search),
presents candidates for confirmation, and serves the collection, the
timeline view, and the shareable shelf image.`,
		Example: `  # Start server on default port 8888
  shelfie serve

  # Start server on custom port
  shelfie serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			bookStore := store.Open(cfg.DataFile)
			pipe := pipeline.New(
				vision.New(cfg.GeminiAPIKey, cfg.GeminiModel),
				ocr.NewService(cfg.OllamaURL, cfg.OllamaModel),
				resolver.New(),
			)
			handler := handlers.New(bookStore, pipe)

			mux := http.NewServeMux()
			mux.HandleFunc("/api/books", handler.HandleBooks)
			mux.HandleFunc("/api/books/", handler.HandleBookDetail)
			mux.HandleFunc("/api/scan", handler.HandleScan)
			mux.HandleFunc("/api/scans/", handler.HandleScanDetail)
			mux.HandleFunc("/api/timeline", handler.HandleTimeline)
			mux.HandleFunc("/api/share.png", handler.HandleShareImage)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Shelfie API available", "addr", addr, "books", bookStore.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
