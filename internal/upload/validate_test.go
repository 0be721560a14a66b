package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
)

func TestValidate(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name    string
		cfg     Config
		file    *File
		kind    ErrorKind
		message string
	}{
		{
			name: "image within limit",
			cfg:  Config{},
			file: &File{Name: "id.jpg", ContentType: "image/jpeg", Size: 4 * mb},
		},
		{
			name: "pdf within limit",
			cfg:  Config{},
			file: &File{Name: "id.pdf", ContentType: "application/pdf", Size: mb},
		},
		{
			name: "exactly at limit",
			cfg:  Config{},
			file: &File{Name: "id.png", ContentType: "image/png", Size: 5 * mb},
		},
		{
			name:    "too large",
			cfg:     Config{},
			file:    &File{Name: "id.png", ContentType: "image/png", Size: 5*mb + 1},
			kind:    KindFileTooLarge,
			message: "File size must be less than 5MB",
		},
		{
			name:    "fractional limit",
			cfg:     Config{MaxSizeMB: 2.5},
			file:    &File{Name: "id.png", ContentType: "image/png", Size: 3 * mb},
			kind:    KindFileTooLarge,
			message: "File size must be less than 2.5MB",
		},
		{
			name:    "size wins over type",
			cfg:     Config{},
			file:    &File{Name: "a.exe", ContentType: "application/x-msdownload", Size: 6 * mb},
			kind:    KindFileTooLarge,
			message: "File size must be less than 5MB",
		},
		{
			name:    "not image or pdf",
			cfg:     Config{},
			file:    &File{Name: "a.txt", ContentType: "text/plain", Size: 10},
			kind:    KindUnsupportedType,
			message: "Please upload an image or PDF file",
		},
		{
			name: "no image wildcard skips type rule",
			cfg:  Config{Accept: ".pdf"},
			file: &File{Name: "a.txt", ContentType: "text/plain", Size: 10},
		},
		{
			name:    "strict accept rejects unlisted type",
			cfg:     Config{Accept: ".pdf", StrictAccept: true},
			file:    &File{Name: "a.png", ContentType: "image/png", Size: 10},
			kind:    KindUnsupportedType,
			message: "File type not accepted. Allowed: .pdf",
		},
		{
			name: "strict accept matches extension case-insensitively",
			cfg:  Config{Accept: ".PDF", StrictAccept: true},
			file: &File{Name: "CV.Pdf", ContentType: "application/pdf", Size: 10},
		},
		{
			name: "strict accept matches exact mime",
			cfg:  Config{Accept: "image/png", StrictAccept: true},
			file: &File{Name: "a.png", ContentType: "image/png", Size: 10},
		},
		{
			name: "strict accept matches wildcard",
			cfg:  Config{Accept: "image/*", StrictAccept: true},
			file: &File{Name: "a.webp", ContentType: "image/webp", Size: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file, tt.cfg.withDefaults())
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestValidationError_Is(t *testing.T) {
	assert.ErrorIs(t, &ValidationError{Kind: KindFileTooLarge}, domain.ErrFileTooLarge)
	assert.ErrorIs(t, &ValidationError{Kind: KindUnsupportedType}, domain.ErrUnsupportedFileType)
	assert.ErrorIs(t, &ValidationError{Kind: KindUploadFailed}, domain.ErrUploadFailed)
	assert.NotErrorIs(t, &ValidationError{Kind: KindFileTooLarge}, domain.ErrUnsupportedFileType)
}

func TestConfig_AcceptedTypes(t *testing.T) {
	cfg := Config{Accept: " Image/* , .PDF,, application/msword "}
	assert.Equal(t, []string{"image/*", ".pdf", "application/msword"}, cfg.AcceptedTypes())
}

func TestConfig_MaxSizeBytes(t *testing.T) {
	assert.Equal(t, int64(5*1024*1024), Config{MaxSizeMB: 5}.MaxSizeBytes())
	assert.Equal(t, int64(512*1024), Config{MaxSizeMB: 0.5}.MaxSizeBytes())
}
