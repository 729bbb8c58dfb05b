package main

import (
	"context"
	"doc-chat/internal"
	"doc-chat/ui"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.OpBold).Render("Error: ")+err.Error())
	}
	os.Exit(code)
}

func run(args []string, out io.Writer) (int, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := len(args) == 0
	logger, closeLog, err := buildLogger(config, interactive)
	if err != nil {
		return exitConfig, err
	}
	defer closeLog()

	app, code, err := newApplication(ctx, config, logger)
	if err != nil {
		return code, err
	}
	defer app.close()

	if !interactive {
		return dispatch(ctx, app, args, out)
	}

	logger.Info("Starting TUI", "backend", config.BackendURL, "history", config.HistoryEnabled())
	model := ui.NewApp(ctx, app.chat, app.uploads, app.documents, app.history, logger, config.BackendURL)
	if err := ui.Run(ctx, model); err != nil {
		return exitRuntime, fmt.Errorf("tui stopped: %w", err)
	}
	return exitOK, nil
}

// buildLogger sends logs to LOG_FILE while the TUI owns the terminal.
// One-shot commands log to the console like any other tool.
func buildLogger(config internal.Config, interactive bool) (*slog.Logger, func(), error) {
	if !interactive {
		return logs.GetLoggerFromString(config.LogLevel), func() {}, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", config.LogLevel, err)
	}
	file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = file.Close() }, nil
}
