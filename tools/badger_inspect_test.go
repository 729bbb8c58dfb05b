package main

import (
	"bytes"
	"doc-chat/domain"
	"doc-chat/repositories"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func Test_Inspect_Prints_Stored_Messages(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	dir := t.TempDir()

	db, _, closeHistory, err := repositories.OpenHistory(dir, log)
	req.NoError(err)
	repository := repositories.NewMessageRepository(db, log, nil)
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	req.NoError(repository.StoreMessage(domain.NewUserMessage("doc-1", "Where is the warranty clause?", at)))
	req.NoError(repository.StoreMessage(domain.NewAssistantMessage("doc-2", "Section four.", "mock-llm", at)))
	closeHistory()

	readOnly, err := repositories.OpenStoreReadOnly(dir, log)
	req.NoError(err)
	defer readOnly.Close()

	var out bytes.Buffer
	req.NoError(inspect(readOnly, "msg:doc-1:", &out))
	req.Contains(out.String(), "Where is the warranty clause?")
	req.Contains(out.String(), "USER")
	req.Contains(out.String(), "09:30:00")
	req.NotContains(out.String(), "Section four.")
}
