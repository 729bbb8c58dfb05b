package main

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"doc-chat/infrastructure/http/client"
	"doc-chat/services"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

const usage = `usage: docchat [command]

  (no command)                       interactive terminal UI
  health                             check the backend
  upload <file>                      validate and upload a document
  ask <document_id> <question...>    ask one question about a document
  list                               list uploaded documents
  delete <document_id>               delete a document
  search <terms...> [--doc id] [--limit n]
                                     search the local transcript history
  history <document_id>              print the local transcript of a document`

type command func(ctx context.Context, app *application, args []string, out io.Writer) (int, error)

var commands = map[string]command{
	"health":  healthCommand,
	"upload":  uploadCommand,
	"ask":     askCommand,
	"list":    listCommand,
	"delete":  deleteCommand,
	"search":  searchCommand,
	"history": historyCommand,
}

func dispatch(ctx context.Context, app *application, args []string, out io.Writer) (int, error) {
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		_, _ = fmt.Fprintln(out, usage)
		return exitOK, nil
	}
	cmd, ok := commands[name]
	if !ok {
		return exitConfig, fmt.Errorf("unknown command %q\n%s", name, usage)
	}
	return cmd(ctx, app, args[1:], out)
}

func healthCommand(ctx context.Context, app *application, _ []string, out io.Writer) (int, error) {
	health, err := app.documents.Health(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("backend unreachable: %w", err)
	}
	if !health.Healthy() {
		printFailure(out, "Backend reports status %q", health.Status)
		return exitRuntime, nil
	}
	printSuccess(out, "Backend is %s", health.Status)
	return exitOK, nil
}

func uploadCommand(ctx context.Context, app *application, args []string, out io.Writer) (int, error) {
	if len(args) != 1 {
		return exitConfig, fmt.Errorf("upload expects exactly one file path")
	}
	result, err := app.uploads.Upload(ctx, args[0])
	if err != nil {
		printFailure(out, "%s", services.UploadErrorMessage(err))
		return exitRuntime, nil
	}
	printSuccess(out, "Uploaded %s", result.Document.Filename)
	printField(out, "document_id", result.Document.ID.String())
	if result.Message != "" {
		printField(out, "message", result.Message)
	}
	return exitOK, nil
}

func askCommand(ctx context.Context, app *application, args []string, out io.Writer) (int, error) {
	if len(args) < 2 {
		return exitConfig, fmt.Errorf("ask expects a document id and a question")
	}
	app.chat.Open(domain.Document{ID: domain.DocumentID(args[0])})
	reply, err := app.chat.Ask(ctx, strings.Join(args[1:], " "))
	if err != nil {
		var askErr *services.AskError
		if stderrors.As(err, &askErr) {
			printFailure(out, "%s", askErr.Message())
			return exitRuntime, nil
		}
		return exitRuntime, err
	}
	printAnswer(out, reply)
	return exitOK, nil
}

func listCommand(ctx context.Context, app *application, _ []string, out io.Writer) (int, error) {
	docs, err := app.documents.List(ctx)
	if err != nil {
		printFailure(out, "%s", client.DetailOrFallback(err, "Failed to list documents."))
		return exitRuntime, nil
	}
	printDocuments(out, docs)
	return exitOK, nil
}

func deleteCommand(ctx context.Context, app *application, args []string, out io.Writer) (int, error) {
	if len(args) != 1 {
		return exitConfig, fmt.Errorf("delete expects exactly one document id")
	}
	message, err := app.documents.Delete(ctx, domain.DocumentID(args[0]))
	if err != nil {
		printFailure(out, "%s", client.DetailOrFallback(err, "Failed to delete document."))
		return exitRuntime, nil
	}
	printSuccess(out, "%s", message)
	return exitOK, nil
}

func searchCommand(ctx context.Context, app *application, args []string, out io.Writer) (int, error) {
	if !app.history.Enabled() {
		return exitConfig, fmt.Errorf("search needs HISTORY_DIR to be set")
	}
	query := search.NewSearchQuery(strings.Join(args, " "))
	if strings.TrimSpace(query.Terms) == "" {
		return exitConfig, fmt.Errorf("search expects at least one term")
	}
	hits, err := app.history.Search(ctx, *query)
	if err != nil {
		return exitRuntime, err
	}
	printHits(out, hits)
	return exitOK, nil
}

func historyCommand(_ context.Context, app *application, args []string, out io.Writer) (int, error) {
	if !app.history.Enabled() {
		return exitConfig, fmt.Errorf("history needs HISTORY_DIR to be set")
	}
	if len(args) != 1 {
		return exitConfig, fmt.Errorf("history expects exactly one document id")
	}
	messages, err := app.history.Transcript(domain.DocumentID(args[0]))
	if err != nil {
		return exitRuntime, err
	}
	printTranscript(out, messages)
	return exitOK, nil
}
