package errors

import "fmt"

var (
	ErrUnsupportedExtension = fmt.Errorf("file type not allowed")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrEmptyFile            = fmt.Errorf("file is empty")
	ErrNotAFile             = fmt.Errorf("entry is not a regular file")
	ErrMimeMismatch         = fmt.Errorf("file content does not match its extension")
	ErrInvalidRequest       = fmt.Errorf("invalid request")

	ErrEmptyQuestion   = fmt.Errorf("question is empty")
	ErrNoDocument      = fmt.Errorf("no document is open")
	ErrRequestInFlight = fmt.Errorf("a request is already in progress")

	ErrHistoryDisabled = fmt.Errorf("local history is disabled")
)
