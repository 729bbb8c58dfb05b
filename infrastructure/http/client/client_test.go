package client

import (
	"context"
	"doc-chat/domain"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL, 5*time.Second, logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	return c
}

func Test_NewClient_Rejects_Bad_Scheme(t *testing.T) {
	req := require.New(t)
	_, err := NewClient("ftp://example.com", time.Second, slog.Default())
	req.Error(err)
}

func Test_Health(t *testing.T) {
	req := require.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodGet, r.Method)
		req.Equal("/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	health, err := c.Health(context.Background())
	req.NoError(err)
	req.True(health.Healthy())
}

func Test_Upload_Sends_Multipart_File(t *testing.T) {
	req := require.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		req.NoError(err)
		defer file.Close()
		content, err := io.ReadAll(file)
		req.NoError(err)
		req.Equal("report.txt", header.Filename)
		req.Equal("text/plain; charset=utf-8", header.Header.Get("Content-Type"))
		req.Equal("hello world", string(content))
		_, _ = w.Write([]byte(`{"document_id":"doc-1","filename":"report.txt","status":"success","message":"ok"}`))
	})

	result, err := c.Upload(context.Background(), domain.UploadFile{
		Filename:    "report.txt",
		ContentType: "text/plain; charset=utf-8",
		Size:        11,
		Content:     strings.NewReader("hello world"),
	})
	req.NoError(err)
	req.Equal(domain.Document{ID: "doc-1", Filename: "report.txt"}, result.Document)
	req.Equal("success", result.Status)
}

func Test_Upload_Surfaces_Server_Detail(t *testing.T) {
	req := require.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"detail":"File too large. Maximum size: 50MB"}`))
	})

	_, err := c.Upload(context.Background(), domain.UploadFile{
		Filename: "big.pdf",
		Content:  strings.NewReader("%PDF-1.4"),
	})
	req.Error(err)
	var apiErr *APIError
	req.True(errors.As(err, &apiErr))
	req.Equal(http.StatusRequestEntityTooLarge, apiErr.StatusCode)
	req.Equal("File too large. Maximum size: 50MB", DetailOrFallback(err, "fallback"))
}

func Test_Query_Omits_Temperature_When_Unset(t *testing.T) {
	testCases := []struct {
		name        string
		temperature *float64
		expectKey   bool
	}{
		{name: "unset", temperature: nil, expectKey: false},
		{name: "set", temperature: lo.ToPtr(0.2), expectKey: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				req.Equal("/query", r.URL.Path)
				req.Equal("application/json", r.Header.Get("Content-Type"))
				var body map[string]any
				req.NoError(json.NewDecoder(r.Body).Decode(&body))
				_, ok := body["temperature"]
				req.Equal(tc.expectKey, ok)
				req.Equal("doc-1", body["document_id"])
				_, _ = w.Write([]byte(`{"document_id":"doc-1","question":"why?","answer":"because","model":"gpt-4o-mini"}`))
			})

			answer, err := c.Query(context.Background(), domain.QueryRequest{
				DocumentID:  "doc-1",
				Question:    "why?",
				Temperature: tc.temperature,
			})
			req.NoError(err)
			req.Equal("because", answer.Answer)
			req.Equal("gpt-4o-mini", answer.Model)
		})
	}
}

func Test_Query_Not_Found(t *testing.T) {
	req := require.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Document not found"}`))
	})

	_, err := c.Query(context.Background(), domain.QueryRequest{DocumentID: "missing", Question: "q"})
	req.Error(err)
	req.Equal("Document not found", DetailOrFallback(err, "fallback"))
}

func Test_ListDocuments_Accepts_Envelope_And_Array(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "envelope",
			body: `{"documents":[{"document_id":"a","filename":"a.pdf","upload_date":"2024-05-01T10:11:12.123456","file_size":42}],"total":1}`,
		},
		{
			name: "bare array",
			body: `[{"document_id":"a","filename":"a.pdf","upload_date":"2024-05-01T10:11:12.123456","file_size":42}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				req.Equal("/documents", r.URL.Path)
				_, _ = w.Write([]byte(tc.body))
			})

			docs, err := c.ListDocuments(context.Background())
			req.NoError(err)
			req.Len(docs, 1)
			req.Equal(domain.DocumentID("a"), docs[0].ID)
			req.Equal(int64(42), docs[0].FileSize)
			req.Equal(time.Date(2024, 5, 1, 10, 11, 12, 123456000, time.UTC), docs[0].UploadDate)
		})
	}
}

func Test_DeleteDocument_Escapes_Identifier(t *testing.T) {
	req := require.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodDelete, r.Method)
		req.Equal("/document/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"message":"Document deleted successfully","document_id":"a/b"}`))
	})

	msg, err := c.DeleteDocument(context.Background(), "a/b")
	req.NoError(err)
	req.Equal("Document deleted successfully", msg)
}

func Test_ParseUploadDate(t *testing.T) {
	req := require.New(t)
	req.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), parseUploadDate("2024-01-02T03:04:05"))
	req.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), parseUploadDate("2024-01-02T03:04:05Z"))
	req.True(parseUploadDate("yesterday").IsZero())
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func Test_WithTransport_Routes_Requests(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	t.Cleanup(server.Close)

	transport := &countingTransport{}
	c, err := NewClient(server.URL, time.Second, slog.Default(), WithTransport(transport))
	req.NoError(err)

	_, err = c.Health(context.Background())
	req.NoError(err)
	req.Equal(1, transport.calls)
}
