package main

import (
	"context"
	"doc-chat/contract"
	"doc-chat/infrastructure/http/client"
	"doc-chat/internal"
	"doc-chat/redaction"
	"doc-chat/repositories"
	"doc-chat/services"
	"doc-chat/sink"
	"fmt"
	"log/slog"
)

const inspectEndpoint = "/inspect"

type application struct {
	chat      *services.ChatService
	uploads   *services.UploadService
	documents *services.DocumentService
	history   *services.HistoryService
	closers   []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApplication builds the services shared by the TUI and the subcommands.
// The returned exit code tells configuration mistakes from runtime failures.
func newApplication(ctx context.Context, config internal.Config, log *slog.Logger) (*application, int, error) {
	api, err := client.NewClient(config.BackendURL, config.RequestTimeout, log)
	if err != nil {
		return nil, exitConfig, err
	}

	mask, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, exitConfig, err
	}
	redactor, err := redaction.NewRedactor(config.Terms(), mask)
	if err != nil {
		return nil, exitConfig, fmt.Errorf("unable to build redactor: %w", err)
	}

	app := &application{}
	var messageSink contract.MessageSink

	if config.HistoryEnabled() {
		db, writer, closeHistory, err := repositories.OpenHistory(config.HistoryDir, log)
		if err != nil {
			return nil, exitRuntime, err
		}
		app.closers = append(app.closers, closeHistory)

		repository := repositories.NewMessageRepository(db, log, config.LimitMessages)
		index := repositories.NewTranscriptIndex(writer, log)
		messageSink = sink.NewTranscriptSink(repository, index, log)
		app.history = services.NewHistoryService(repository, index)

		if config.DebugAddr != "" {
			server := internal.StartDebugServer(ctx, db, config.DebugAddr, inspectEndpoint, internal.MessageMapper, log)
			app.closers = append(app.closers, func() { _ = server.Close() })
			log.Info("Debug inspector started", "url", "http://"+config.DebugAddr+inspectEndpoint)
		}
	} else {
		app.history = services.NewHistoryService(nil, nil)
	}

	app.chat = services.NewChatService(api, redactor, messageSink, log, config.QueryTemperature)
	app.uploads = services.NewUploadService(api, app.chat, log, config.MaxFileSize(), config.StrictMime)
	app.documents = services.NewDocumentService(api, app.chat, messageSink, log)
	return app, exitOK, nil
}
