package internal

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const DefaultInspectPrefix = "msg:"

var inspectTemplate = template.Must(template.New("inspect").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>docchat inspector</title></head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}"><button>scan</button></form>
<p>{{len .Items}} keys</p>
<table border="1" cellpadding="4">
<tr><th>Key</th><th>Type</th><th>Time</th><th>Entity</th><th>Document</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Timestamp}}</td><td>{{.EntityID}}</td><td>{{.Namespace}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body></html>`))

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Namespace string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// ScanRows maps every Badger key under prefix to a row.
func ScanRows(db *badger.DB, prefix string, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			if err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(key, val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// InspectHandler renders every Badger key under the requested prefix.
func InspectHandler(db *badger.DB, mapper RowMapper) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = DefaultInspectPrefix
		}

		rows, err := ScanRows(db, prefix, mapper)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, PageData{Prefix: prefix, Items: rows})
	})
}

// StartDebugServer serves the inspector on addr until ctx is cancelled.
func StartDebugServer(ctx context.Context, db *badger.DB, addr, endpoint string, mapper RowMapper, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, InspectHandler(db, mapper))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Debug server stopped", "addr", addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	return server
}

// DefaultMapper decodes "msg:{document_id}:{unix_nano}:{uuid}" keys.
// The document identifier may itself contain colons.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Namespace: "default",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	parts := strings.Split(key, ":")
	if len(parts) < 4 {
		return row
	}
	last := len(parts) - 1
	row.Namespace = strings.Join(parts[1:last-1], ":")
	if tsNano, err := strconv.ParseInt(parts[last-1], 10, 64); err == nil {
		row.Timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
	}
	row.EntityID = parts[last]
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}
	return row
}

// MessageMapper adds the role and a content preview of stored messages.
func MessageMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	var stored struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(val, &stored); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = strings.ToUpper(stored.Role)
	row.Detail = preview(stored.Content, 80)
	return row
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
