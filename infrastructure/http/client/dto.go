package client

import (
	"doc-chat/domain"
	"time"

	"github.com/samber/lo"
)

type healthResponse struct {
	Status string `json:"status"`
}

type uploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type queryRequest struct {
	DocumentID  string   `json:"document_id"`
	Question    string   `json:"question"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type queryResponse struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Model      string `json:"model"`
}

type documentInfo struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date"`
	FileSize   int64  `json:"file_size"`
}

type listDocumentsResponse struct {
	Documents []documentInfo `json:"documents"`
	Total     int            `json:"total"`
}

type deleteResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// The backend writes naive ISO-8601 timestamps; zoned forms are accepted too.
var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseUploadDate(raw string) time.Time {
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toDocumentInfos(items []documentInfo) []domain.DocumentInfo {
	return lo.Map(items, func(item documentInfo, _ int) domain.DocumentInfo {
		return domain.DocumentInfo{
			ID:            domain.DocumentID(item.DocumentID),
			Filename:      item.Filename,
			UploadDate:    parseUploadDate(item.UploadDate),
			RawUploadDate: item.UploadDate,
			FileSize:      item.FileSize,
		}
	})
}

func fromQueryRequest(req domain.QueryRequest) queryRequest {
	return queryRequest{
		DocumentID:  req.DocumentID.String(),
		Question:    req.Question,
		Temperature: req.Temperature,
	}
}

func toAnswer(resp queryResponse) domain.Answer {
	return domain.Answer{
		DocumentID: domain.DocumentID(resp.DocumentID),
		Question:   resp.Question,
		Answer:     resp.Answer,
		Model:      resp.Model,
	}
}
