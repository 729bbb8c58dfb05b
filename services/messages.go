package services

import (
	"doc-chat/errors"
	"doc-chat/infrastructure/http/client"
	stderrors "errors"
	"strings"
	"unicode"
)

const (
	QueryFallback  = "Failed to get response. Please try again."
	UploadFallback = "Failed to upload document. Please try again."
)

// AskError is returned when a question could not be answered. The user
// message has already been rolled back from the conversation.
type AskError struct {
	Err     error
	message string
}

func (e *AskError) Error() string {
	return e.Err.Error()
}

func (e *AskError) Unwrap() error {
	return e.Err
}

// Message is the single human readable line to show the user.
func (e *AskError) Message() string {
	return e.message
}

func newAskError(err error) *AskError {
	return &AskError{Err: err, message: client.DetailOrFallback(err, QueryFallback)}
}

var localUploadErrors = []error{
	errors.ErrUnsupportedExtension,
	errors.ErrFileTooLarge,
	errors.ErrEmptyFile,
	errors.ErrNotAFile,
	errors.ErrMimeMismatch,
	errors.ErrInvalidRequest,
	errors.ErrRequestInFlight,
}

// UploadErrorMessage turns an upload failure into one line for the user:
// local validation errors speak for themselves, backend failures show the
// server detail or a generic fallback.
func UploadErrorMessage(err error) string {
	for _, known := range localUploadErrors {
		if stderrors.Is(err, known) {
			return Capitalize(err.Error())
		}
	}
	return client.DetailOrFallback(err, UploadFallback)
}

// Capitalize upper-cases the first rune of s for display.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return strings.TrimSpace(string(r))
}
