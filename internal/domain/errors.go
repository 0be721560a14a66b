package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user is inactive")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrDuplicateEmployeeCode = errors.New("employee code already exists")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrInvalidRole           = errors.New("invalid role")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrSlotNotFound          = errors.New("document slot not found")
	ErrSlotReadOnly          = errors.New("document slot is read-only")
	ErrInvalidVerification   = errors.New("invalid verification status")
	ErrRejectionReason       = errors.New("rejection reason is required")
	ErrTokenRevoked          = errors.New("token has been revoked")
)
