package domain

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

const KB = 1024
const MB = KB * KB

// MaxFileSize is the largest file accepted for upload (inclusive).
const MaxFileSize = 50 * MB

// AllowedExtensions lists the lowercase extensions the backend can ingest.
var AllowedExtensions = []string{".pdf", ".txt", ".docx", ".xlsx", ".zip"}

// UploadRequest describes a local file the user picked for upload.
type UploadRequest struct {
	Path     string `validate:"required,max=1024"`
	Filename string `validate:"required,max=255"`
	Size     int64  `validate:"gte=0"`
}

func NewUploadRequest(path string, size int64) UploadRequest {
	return UploadRequest{Path: path, Filename: filepath.Base(path), Size: size}
}

// Extension returns the lowercase extension of the request filename.
func (r UploadRequest) Extension() string {
	return Extension(r.Filename)
}

func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func IsAllowedExtension(filename string) bool {
	return lo.Contains(AllowedExtensions, Extension(filename))
}
