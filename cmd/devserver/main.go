// Command devserver runs the in-memory diagram backend on a local port so the
// CLI can be exercised without the real service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/fakeapi"
	"github.com/dmitrijs2005/umlgen/internal/logging"
)

func main() {
	addr := flag.String("addr", "localhost:8000", "listen address")
	adminEmail := flag.String("admin-email", "admin@example.com", "seeded admin account")
	adminPassword := flag.String("admin-password", "admin123", "seeded admin password")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.Options{Backend: logging.BackendSlog, Level: *level, Encoding: logging.EncodingText})

	backend := fakeapi.NewBackend()
	admin := backend.AddUser(*adminEmail, *adminPassword, true, models.PlanPro)
	backend.AddDiagram(models.Diagram{
		UserID:      admin.ID,
		Title:       "Online shop",
		Prompt:      "Online shop with customers, orders and products",
		DiagramType: models.DiagramClass,
		MermaidCode: fakeapi.MermaidFor(models.DiagramClass, "Shop"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           accessLog(logger, backend),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "devserver listening", "addr", *addr, "admin", *adminEmail)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "listen", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "devserver stopped")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func accessLog(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}
