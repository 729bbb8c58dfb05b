package mimetypes

import (
	"mime"
	"strings"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	TextPlain   MIME = "text/plain"
	OctetStream MIME = "application/octet-stream"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationZIP  MIME = "application/zip"
	ApplicationDOCX MIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ApplicationXLSX MIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var byExtension = map[string]MIME{
	".pdf":  ApplicationPDF,
	".txt":  TextPlain,
	".docx": ApplicationDOCX,
	".xlsx": ApplicationXLSX,
	".zip":  ApplicationZIP,
}

// ForExtension returns the MIME type expected for a lowercase file extension.
func ForExtension(ext string) MIME {
	if m, ok := byExtension[strings.ToLower(ext)]; ok {
		return m
	}
	return Unknown
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// Compatible reports whether a sniffed media type is acceptable content for
// the expected type. Office documents are zip containers and any text/*
// subtype is acceptable for plain text.
func Compatible(detected string, expected MIME) bool {
	if _, ok := Matches(detected, expected); ok {
		return true
	}
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	switch expected {
	case TextPlain:
		return strings.HasPrefix(mt, "text/")
	case ApplicationDOCX, ApplicationXLSX:
		return mt == string(ApplicationZIP)
	default:
		return false
	}
}
