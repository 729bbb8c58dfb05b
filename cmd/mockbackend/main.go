package main

import (
	"context"
	"doc-chat/internal"
	"doc-chat/internal/mockbackend"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run serves the stub backend until SIGINT or SIGTERM.
func run() error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	if config.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := mockbackend.NewServer(log, config.MaxFileSize())
	server := &http.Server{
		Addr:              config.MockBackendAddr,
		Handler:           backend.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Mock backend listening", "addr", config.MockBackendAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("mock backend stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down mock backend...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
