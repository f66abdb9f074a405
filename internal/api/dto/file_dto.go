package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// FileResponse is the public view of upload metadata.
type FileResponse struct {
	ID           string    `json:"id"`
	UploadedBy   string    `json:"uploaded_by"`
	StorageKey   string    `json:"storage_key"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewFileResponse maps domain upload metadata.
func NewFileResponse(file *domain.FileUpload) FileResponse {
	return FileResponse{
		ID:           file.ID,
		UploadedBy:   file.UploadedBy,
		StorageKey:   file.StorageKey,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		CreatedAt:    file.CreatedAt,
	}
}
