package main

import (
	"context"
	"doc-chat/internal"
	"doc-chat/repositories"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

const defaultViewerAddr = "localhost:6060"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run serves the transcript inspector over a read-only view of HISTORY_DIR.
func run() error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	if !config.HistoryEnabled() {
		return fmt.Errorf("HISTORY_DIR must point at a docchat history directory")
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	db, err := repositories.OpenStoreReadOnly(config.HistoryDir, log)
	if err != nil {
		return err
	}
	defer db.Close()

	addr := config.DebugAddr
	if addr == "" {
		addr = defaultViewerAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	internal.StartDebugServer(ctx, db, addr, "/inspect", internal.MessageMapper, log)
	fmt.Printf("🌐 Viewer started at http://%s/inspect\n", addr)

	<-ctx.Done()
	return nil
}
