package e2e

import (
	"context"
	"doc-chat/infrastructure/http/client"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	Log    *slog.Logger
}

// SetupSuite loads the environment configuration and skips without a backend.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BackendURL == "" {
		s.T().Skip("DOCCHAT_E2E_BACKEND_URL is not set")
	}
	s.Log = logs.GetLoggerFromLevel(slog.LevelWarn)
}

// tracingTransport logs every round trip, with full bodies when E2E_DEBUG_JSON is set.
type tracingTransport struct {
	t         *testing.T
	debugJSON bool
}

func (tr tracingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	logBuilder := strings.Builder{}
	if tr.debugJSON && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\n", dump)
		}
	}

	start := time.Now()
	resp, err := http.DefaultTransport.RoundTrip(r)
	if err != nil {
		tr.t.Logf("HTTP %s %s failed in %v: %v%s", r.Method, r.URL.Path, time.Since(start), err, logBuilder.String())
		return nil, err
	}

	if tr.debugJSON {
		if dump, dumpErr := httputil.DumpResponse(resp, true); dumpErr == nil {
			fmt.Fprintf(&logBuilder, "RESPONSE:\n%s\n", dump)
		}
	}
	tr.t.Logf("HTTP %s %s [%d] in %v%s", r.Method, r.URL.Path, resp.StatusCode, time.Since(start), logBuilder.String())
	return resp, nil
}

// WithClient runs fn inside a named step with a traced client for the backend.
func (s *BaseHTTPSuite) WithClient(name string, fn func(ctx context.Context, api *client.Client)) {
	t := s.T()
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	api, err := client.NewClient(s.Config.BackendURL, s.Config.Timeout, s.Log,
		client.WithTransport(tracingTransport{t: t, debugJSON: s.Config.DebugJSON}))
	s.Require().NoError(err, "Failed to build client for "+s.Config.BackendURL)

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout)
	defer cancel()
	fn(ctx, api)
}
