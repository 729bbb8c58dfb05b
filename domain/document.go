package domain

import (
	"io"
	"time"
)

type DocumentID string

func (id DocumentID) String() string {
	return string(id)
}

// Document is the reference the backend hands back after an upload.
type Document struct {
	ID       DocumentID
	Filename string
}

// DocumentInfo is one entry of the backend document listing.
type DocumentInfo struct {
	ID            DocumentID
	Filename      string
	UploadDate    time.Time // zero when the backend date could not be parsed
	RawUploadDate string
	FileSize      int64
}

func (d DocumentInfo) Document() Document {
	return Document{ID: d.ID, Filename: d.Filename}
}

// UploadFile is a validated file ready to be streamed to the backend.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadResult struct {
	Document Document
	Status   string
	Message  string
}

type QueryRequest struct {
	DocumentID  DocumentID `validate:"required,max=256"`
	Question    string     `validate:"required"`
	Temperature *float64   `validate:"omitempty,gte=0,lte=2"`
}

type Answer struct {
	DocumentID DocumentID
	Question   string
	Answer     string
	Model      string
}

type Health struct {
	Status string
}

func (h Health) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}
