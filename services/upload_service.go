package services

import (
	"context"
	"doc-chat/contract"
	"doc-chat/domain"
	"doc-chat/domain/mimetypes"
	"doc-chat/errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// DocumentOpener receives the document reference after a successful upload.
type DocumentOpener interface {
	Open(doc domain.Document)
}

// PreparedUpload is a local file that passed every check and may be sent.
type PreparedUpload struct {
	Request     domain.UploadRequest
	ContentType string
}

type UploadService struct {
	api         contract.DocumentAPI
	opener      DocumentOpener
	validator   *validator.Validate
	log         *slog.Logger
	maxFileSize int64
	strictMime  bool
	inFlight    atomic.Bool
}

func NewUploadService(
	api contract.DocumentAPI,
	opener DocumentOpener,
	log *slog.Logger,
	maxFileSize int64,
	strictMime bool,
) *UploadService {
	if maxFileSize <= 0 || maxFileSize > domain.MaxFileSize {
		maxFileSize = domain.MaxFileSize
	}
	return &UploadService{
		api:         api,
		opener:      opener,
		validator:   validator.New(),
		log:         log,
		maxFileSize: maxFileSize,
		strictMime:  strictMime,
	}
}

// Check applies the extension allow-list and the size limit to a request
// without touching the file system.
func (s *UploadService) Check(request domain.UploadRequest) error {
	if err := s.validator.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	if !domain.IsAllowedExtension(request.Filename) {
		return fmt.Errorf("%w: %q, allowed: %s", errors.ErrUnsupportedExtension,
			request.Extension(), strings.Join(domain.AllowedExtensions, ", "))
	}
	if request.Size > s.maxFileSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d MB", errors.ErrFileTooLarge,
			request.Size, s.maxFileSize/domain.MB)
	}
	if request.Size == 0 {
		return errors.ErrEmptyFile
	}
	return nil
}

// Validate stats and sniffs the file at path.
func (s *UploadService) Validate(path string) (PreparedUpload, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return PreparedUpload{}, fmt.Errorf("%w: no file selected", errors.ErrInvalidRequest)
	}
	info, err := os.Stat(path)
	if err != nil {
		return PreparedUpload{}, fmt.Errorf("%w: %v", errors.ErrNotAFile, err)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return PreparedUpload{}, fmt.Errorf("%w: %s", errors.ErrNotAFile, path)
	}

	request := domain.NewUploadRequest(path, info.Size())
	if err := s.Check(request); err != nil {
		return PreparedUpload{}, err
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return PreparedUpload{}, fmt.Errorf("sniff %s failed: %w", path, err)
	}
	expected := mimetypes.ForExtension(request.Extension())
	if s.strictMime && !mimetypes.Compatible(detected.String(), expected) {
		return PreparedUpload{}, fmt.Errorf("%w: %s looks like %s", errors.ErrMimeMismatch,
			request.Filename, detected.String())
	}

	contentType := detected.String()
	if detected.Is(string(mimetypes.OctetStream)) {
		contentType = string(expected)
	}
	return PreparedUpload{Request: request, ContentType: contentType}, nil
}

// Upload validates the file, streams it to the backend and opens the
// returned document. Rejected files never reach the backend.
func (s *UploadService) Upload(ctx context.Context, path string) (domain.UploadResult, error) {
	prepared, err := s.Validate(path)
	if err != nil {
		return domain.UploadResult{}, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.UploadResult{}, errors.ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	file, err := os.Open(prepared.Request.Path)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("%w: %v", errors.ErrNotAFile, err)
	}
	defer file.Close()

	result, err := s.api.Upload(ctx, domain.UploadFile{
		Filename:    prepared.Request.Filename,
		ContentType: prepared.ContentType,
		Size:        prepared.Request.Size,
		Content:     file,
	})
	if err != nil {
		s.log.Warn("Upload failed", "filename", prepared.Request.Filename, "error", err)
		return domain.UploadResult{}, err
	}
	if result.Document.ID == "" {
		return domain.UploadResult{}, fmt.Errorf("upload response carried no document id")
	}
	if result.Document.Filename == "" {
		result.Document.Filename = prepared.Request.Filename
	}

	s.log.Info("Document uploaded", "document_id", result.Document.ID, "filename", result.Document.Filename)
	if s.opener != nil {
		s.opener.Open(result.Document)
	}
	return result, nil
}
