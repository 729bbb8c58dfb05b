package search

import (
	"strconv"
	"strings"
)

const DefaultLimit = 10

const searchCommand = "/search"

// Query represents the structured parameters for a transcript search.
// It decouples the raw chat input from the index requirements.
type Query struct {
	RawInput   string // The original command typed by the user
	Terms      string // The actual text to search in the index
	DocumentID string // Restricts hits to one document when set
	Limit      int    // Number of results
}

// NewSearchQuery parses a raw string to extract command-line style arguments.
// Example: /search invoice total --doc 3f2a --limit 5
func NewSearchQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    DefaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "doc":
				query.DocumentID = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		// The command itself is not a search term
		if i == 0 && part == searchCommand {
			continue
		}
		textTerms = append(textTerms, part)
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}

// IsSearchCommand reports whether a chat input should be routed to the
// local transcript search instead of the backend.
func IsSearchCommand(input string) bool {
	fields := strings.Fields(input)
	return len(fields) > 0 && fields[0] == searchCommand
}
