package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"hrdesk/internal/domain"
)

// ErrorKind classifies a slot error.
type ErrorKind string

const (
	KindFileTooLarge    ErrorKind = "FileTooLarge"
	KindUnsupportedType ErrorKind = "UnsupportedType"
	KindUploadFailed    ErrorKind = "UploadFailed"
)

const pdfContentType = "application/pdf"

// ErrInvalidConfig is returned when a slot is configured without accepted types or with a non-positive size limit.
var ErrInvalidConfig = errors.New("upload: slot needs accepted types and a positive max size")

// ValidationError is a local, recoverable failure surfaced inline on the slot.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is lets callers match slot errors against the domain sentinels.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindFileTooLarge:
		return target == domain.ErrFileTooLarge
	case KindUnsupportedType:
		return target == domain.ErrUnsupportedFileType
	case KindUploadFailed:
		return target == domain.ErrUploadFailed
	}
	return false
}

// Validate checks f against cfg. A nil file is an unsupported type. The size check runs
// first and short-circuits the type check.
func Validate(f *File, cfg Config) error {
	if f == nil {
		return &ValidationError{Kind: KindUnsupportedType, Message: "No file selected"}
	}
	if f.Size > cfg.MaxSizeBytes() {
		return &ValidationError{
			Kind:    KindFileTooLarge,
			Message: fmt.Sprintf("File size must be less than %sMB", formatMB(cfg.MaxSizeMB)),
		}
	}

	accepted := cfg.AcceptedTypes()
	if hasImageWildcard(accepted) && !isImage(f.ContentType) && f.ContentType != pdfContentType {
		return &ValidationError{
			Kind:    KindUnsupportedType,
			Message: "Please upload an image or PDF file",
		}
	}

	// Without StrictAccept the accept list is informational beyond the image/PDF rule above.
	if cfg.StrictAccept && !matchesAny(f, accepted) {
		return &ValidationError{
			Kind:    KindUnsupportedType,
			Message: "File type not accepted. Allowed: " + strings.Join(accepted, ", "),
		}
	}
	return nil
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', -1, 64)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func hasImageWildcard(accepted []string) bool {
	for _, a := range accepted {
		if a == "image/*" {
			return true
		}
	}
	return false
}

// matchesAny reports whether f matches one accept pattern: a MIME type, a type wildcard, or a file extension.
func matchesAny(f *File, accepted []string) bool {
	ext := strings.ToLower(filepath.Ext(f.Name))
	for _, a := range accepted {
		switch {
		case strings.HasPrefix(a, "."):
			if ext == a {
				return true
			}
		case strings.HasSuffix(a, "/*"):
			if strings.HasPrefix(f.ContentType, strings.TrimSuffix(a, "*")) {
				return true
			}
		default:
			if f.ContentType == a {
				return true
			}
		}
	}
	return false
}
