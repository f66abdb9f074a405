package domain

import "time"

// FileUpload records metadata for a stored upload. The bytes live in the
// configured file store under StorageKey; only metadata is persisted here.
type FileUpload struct {
	ID           string
	UploadedBy   string
	StorageKey   string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	CreatedAt    time.Time
}
