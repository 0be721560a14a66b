package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/resilience"
	"hrdesk/internal/upload"
)

// FileStorageConfig names the bucket and presign lifetime of the active storage provider.
type FileStorageConfig struct {
	Bucket        string
	PresignExpiry int64
}

// FileUploadInput is the DTO for storing one slot file.
type FileUploadInput struct {
	EmployeeID uuid.UUID
	UploadedBy uuid.UUID
	SlotID     string
	File       *upload.File
}

// FileService defines the file management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	// Store is Upload with the first attempt reading body instead of the file content.
	Store(ctx context.Context, input FileUploadInput, body io.Reader) (*domain.FileMeta, error)
	// Sink adapts Store for upload.StorageTransport. The receipt ID is the file metadata ID.
	Sink(employeeID, uploadedBy uuid.UUID, slotID string) upload.SinkFunc
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	exec     *resilience.Executor
	cfg      FileStorageConfig
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	exec *resilience.Executor,
	cfg FileStorageConfig,
) FileService {
	if exec == nil {
		exec = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		exec:     exec,
		cfg:      cfg,
	}
}

// SniffContentType detects the content type from the file bytes, ignoring what the client declared.
func SniffContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

func detectFileType(data []byte) (domain.FileType, string, bool) {
	m := mimetype.Detect(data)
	for ct, ft := range domain.AllowedContentTypes {
		if m.Is(ct) {
			return ft, ct, true
		}
	}
	return "", m.String(), false
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	return s.Store(ctx, input, input.File.Reader())
}

func (s *fileService) Store(ctx context.Context, input FileUploadInput, body io.Reader) (*domain.FileMeta, error) {
	f := input.File
	if f == nil || len(f.Data) == 0 {
		return nil, domain.ErrUnsupportedFileType
	}

	fileType, contentType, ok := detectFileType(f.Data)
	if !ok {
		log.Printf("fileService.Store: rejecting %s, detected %s", f.Name, contentType)
		return nil, domain.ErrUnsupportedFileType
	}

	pages := 0
	if fileType == domain.FileTypePDF {
		n, err := upload.PDFPageCount(f.Data)
		if err != nil {
			log.Printf("fileService.Store: could not read page count of %s: %v", f.Name, err)
		} else {
			pages = n
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
	if _, known := domain.AllowedExtensions[ext]; !known {
		ext = string(fileType)
	}

	fileID := uuid.New()
	key := fmt.Sprintf("employees/%s/%s/%s.%s", input.EmployeeID, input.SlotID, fileID, ext)
	meta := &domain.FileMeta{
		ID:           fileID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: f.Name,
		FileType:     fileType,
		FileSize:     int64(len(f.Data)),
		Bucket:       s.cfg.Bucket,
		StorageKey:   key,
		ContentType:  contentType,
		PageCount:    pages,
		Status:       domain.FileStatusPending,
	}

	log.Printf("fileService.Store: uploading %s (%s, %d bytes) for employee %s slot %s",
		f.Name, contentType, meta.FileSize, input.EmployeeID, input.SlotID)

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		log.Printf("fileService.Store: failed to create file metadata: %v", err)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	err := s.exec.Execute(ctx, "storage.upload", func(ctx context.Context, attempt int) error {
		r := body
		if attempt > 1 {
			r = f.Reader()
		}
		out, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        r,
			ContentType: contentType,
			Size:        meta.FileSize,
			FileName:    f.Name,
			Metadata: map[string]string{
				port.MetaEmployeeID: input.EmployeeID.String(),
				port.MetaSlotID:     input.SlotID,
				port.MetaUploadedBy: input.UploadedBy.String(),
			},
		})
		if err == nil && out != nil && out.VersionID != "" {
			log.Printf("fileService.Store: stored %s as version %s", key, out.VersionID)
		}
		return err
	}, resilience.Transient)
	// The row must leave pending even when the caller has gone away.
	statusCtx := context.WithoutCancel(ctx)
	if err != nil {
		log.Printf("fileService.Store: storage upload failed for file %s: %v", meta.ID, err)
		if serr := s.fileRepo.UpdateStatus(statusCtx, meta.ID, domain.FileStatusFailed); serr != nil {
			log.Printf("fileService.Store: marking file %s failed: %v", meta.ID, serr)
		}
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(statusCtx, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return meta, nil
}

func (s *fileService) Sink(employeeID, uploadedBy uuid.UUID, slotID string) upload.SinkFunc {
	return func(ctx context.Context, f *upload.File, body io.Reader) (upload.Receipt, error) {
		meta, err := s.Store(ctx, FileUploadInput{
			EmployeeID: employeeID,
			UploadedBy: uploadedBy,
			SlotID:     slotID,
			File:       f,
		}, body)
		if err != nil {
			return upload.Receipt{}, err
		}
		return upload.Receipt{ID: meta.ID.String(), Key: meta.StorageKey}, nil
	}
}

func (s *fileService) GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, fileID)
}

func (s *fileService) GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.Bucket, meta.StorageKey, s.cfg.PresignExpiry)
}

func (s *fileService) Delete(ctx context.Context, fileID uuid.UUID) error {
	log.Printf("fileService.Delete: deleting file %s", fileID)

	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, meta.Bucket, meta.StorageKey); err != nil {
		log.Printf("fileService.Delete: failed to delete from storage: %v", err)
		return fmt.Errorf("deleting from storage: %w", err)
	}

	return s.fileRepo.Delete(ctx, fileID)
}
