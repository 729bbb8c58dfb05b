package ui

import "doc-chat/domain"

type healthMsg struct {
	health domain.Health
	err    error
}

type documentsMsg struct {
	docs []domain.DocumentInfo
	err  error
}

type uploadedMsg struct {
	result domain.UploadResult
	err    error
}

type deletedMsg struct {
	id      domain.DocumentID
	message string
	err     error
}

// documentOpenedMsg tells the root model a fresh chat view is needed.
type documentOpenedMsg struct {
	document domain.Document
}

type documentClosedMsg struct{}

type answerMsg struct {
	reply domain.Message
	err   error
}

type searchMsg struct {
	query string
	hits  []domain.SearchHit
	err   error
}
