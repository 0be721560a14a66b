package upload

import (
	"bytes"
	"io"
	"strings"

	"hrdesk/internal/domain"
)

const (
	// DefaultAccept is the accept pattern used when a slot does not set one.
	DefaultAccept = "image/*,.pdf"
	// DefaultMaxSizeMB is the size ceiling used when a slot does not set one.
	DefaultMaxSizeMB = 5
)

// File is a candidate document handed to a slot. The slot owns it from a successful selection until removal.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Reader returns a fresh reader over the file content.
func (f *File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// Config holds the input properties of one slot.
type Config struct {
	ID                 string
	Label              string
	Description        string
	Accept             string
	MaxSizeMB          float64
	CurrentPreview     string
	VerificationStatus domain.VerificationStatus
	RejectionReason    string
	ReadOnly           bool
	Compact            bool

	// StrictAccept enforces every accept pattern instead of only the image/PDF rule.
	StrictAccept bool
}

// withDefaults fills Accept and MaxSizeMB when they were left zero.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Accept) == "" {
		c.Accept = DefaultAccept
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = DefaultMaxSizeMB
	}
	if c.VerificationStatus == "" {
		c.VerificationStatus = domain.VerificationNone
	}
	return c
}

// AcceptedTypes splits Accept into trimmed, lower-cased patterns.
func (c Config) AcceptedTypes() []string {
	var out []string
	for _, p := range strings.Split(c.Accept, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MaxSizeBytes returns the size ceiling in bytes.
func (c Config) MaxSizeBytes() int64 {
	return int64(c.MaxSizeMB * 1024 * 1024)
}

// Check returns ErrInvalidConfig when the slot cannot validate anything.
func (c Config) Check() error {
	if len(c.AcceptedTypes()) == 0 || c.MaxSizeMB <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
