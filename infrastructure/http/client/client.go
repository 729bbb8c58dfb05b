package client

import (
	"bytes"
	"context"
	"doc-chat/domain"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const uploadField = "file"

// Client talks to the document assistant backend over HTTP+JSON.
// It performs exactly one request per call and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithTransport replaces the default round tripper, e.g. to trace requests.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(baseURL, "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins already escaped path segments onto the base URL.
func (c *Client) endpoint(segments ...string) string {
	return c.baseURL + "/" + strings.Join(segments, "/")
}

func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var out healthResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("health"), nil, &out); err != nil {
		return domain.Health{}, fmt.Errorf("health check failed: %w", err)
	}
	return domain.Health{Status: out.Status}, nil
}

// Upload streams the file as multipart/form-data without buffering it.
func (c *Client) Upload(ctx context.Context, file domain.UploadFile) (domain.UploadResult, error) {
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		part, err := form.CreatePart(filePartHeader(file))
		if err == nil {
			_, err = io.Copy(part, file.Content)
		}
		if err == nil {
			err = form.Close()
		}
		_ = writer.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), body)
	if err != nil {
		_ = body.CloseWithError(err)
		return domain.UploadResult{}, fmt.Errorf("build upload request failed: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	c.log.Debug("Uploading document", "filename", file.Filename, "size", file.Size, "content_type", file.ContentType)

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload failed: %w", err)
	}
	return domain.UploadResult{
		Document: domain.Document{ID: domain.DocumentID(out.DocumentID), Filename: out.Filename},
		Status:   out.Status,
		Message:  out.Message,
	}, nil
}

func (c *Client) Query(ctx context.Context, q domain.QueryRequest) (domain.Answer, error) {
	var out queryResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("query"), fromQueryRequest(q), &out); err != nil {
		return domain.Answer{}, fmt.Errorf("query failed: %w", err)
	}
	return toAnswer(out), nil
}

// ListDocuments accepts both the {documents, total} envelope and a bare array.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("documents"), nil, &raw); err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []documentInfo
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse documents failed: %w", err)
		}
		return toDocumentInfos(items), nil
	}

	var out listDocumentsResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("parse documents failed: %w", err)
	}
	return toDocumentInfos(out.Documents), nil
}

func (c *Client) DeleteDocument(ctx context.Context, id domain.DocumentID) (string, error) {
	var out deleteResponse
	endpoint := c.endpoint("document", url.PathEscape(id.String()))
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, &out); err != nil {
		return "", fmt.Errorf("delete document failed: %w", err)
	}
	return out.Message, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	c.log.Debug("Backend call", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response failed: %w", err)
	}
	return nil
}

func filePartHeader(file domain.UploadFile) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     uploadField,
		"filename": file.Filename,
	}))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}
