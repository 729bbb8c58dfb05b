package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_DecodeDetail(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "string detail", body: `{"detail":"Document not found"}`, expected: "Document not found"},
		{
			name:     "validation list",
			body:     `{"detail":[{"loc":["body","question"],"msg":"field required"},{"loc":["body","temperature"],"msg":"not a number"}]}`,
			expected: "question: field required; temperature: not a number",
		},
		{name: "no detail", body: `{"error":"boom"}`, expected: ""},
		{name: "not json", body: `<html>502</html>`, expected: ""},
		{name: "empty", body: ``, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, decodeDetail([]byte(tc.body)))
		})
	}
}

func Test_DetailOrFallback(t *testing.T) {
	req := require.New(t)
	fallback := "Failed to get response. Please try again."

	req.Equal(fallback, DetailOrFallback(fmt.Errorf("dial tcp: refused"), fallback))
	req.Equal(fallback, DetailOrFallback(&APIError{StatusCode: 502}, fallback))
	req.Equal("nope", DetailOrFallback(fmt.Errorf("query failed: %w", &APIError{StatusCode: 400, Detail: "nope"}), fallback))
}
