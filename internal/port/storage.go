package port

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Object metadata keys attached to every stored document file.
const (
	MetaEmployeeID = "employee-id"
	MetaSlotID     = "slot-id"
	MetaUploadedBy = "uploaded-by"
)

// UploadInput describes one document file written to object storage.
// FileName is the name a presigned download is saved as.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	FileName    string
	Metadata    map[string]string
}

// ContentDisposition returns the attachment header for FileName, or "" when it is empty.
func (in UploadInput) ContentDisposition() string {
	if in.FileName == "" {
		return ""
	}
	name := strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(in.FileName)
	return fmt.Sprintf("attachment; filename=%q", name)
}

// UploadOutput is what the backend reports for a stored object.
type UploadOutput struct {
	Location  string
	ETag      string
	VersionID string
}

// ObjectStorage stores document files. Download returns domain.ErrNotFound for a missing key.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
