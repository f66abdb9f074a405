package service

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/storage"
)

// FileService stores upload bytes in the configured file store and their
// metadata in Postgres. Avatar uploads additionally stamp the uploader's
// profile.
type FileService struct {
	files repository.FileRepository
	users repository.UserRepository
	store storage.FileStore
}

// NewFileService constructs the service.
func NewFileService(files repository.FileRepository, users repository.UserRepository, store storage.FileStore) *FileService {
	return &FileService{files: files, users: users, store: store}
}

// UploadInput describes one incoming file.
type UploadInput struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Reader       io.Reader
	IsAvatar     bool
}

// Upload persists the bytes under a fresh storage key and records metadata.
func (s *FileService) Upload(ctx context.Context, uploaderID string, input UploadInput) (*domain.FileUpload, error) {
	key := uuid.NewString() + filepath.Ext(input.OriginalName)
	if err := s.store.Save(ctx, key, input.Reader, input.SizeBytes, input.MimeType); err != nil {
		return nil, err
	}

	file := &domain.FileUpload{
		UploadedBy:   uploaderID,
		StorageKey:   key,
		OriginalName: input.OriginalName,
		MimeType:     input.MimeType,
		SizeBytes:    input.SizeBytes,
	}
	if err := s.files.Create(ctx, file); err != nil {
		// Orphaned bytes are worse than a failed request; best effort cleanup.
		_ = s.store.Remove(ctx, key)
		return nil, err
	}

	if input.IsAvatar {
		user, err := s.users.GetByID(ctx, uploaderID)
		if err != nil {
			return nil, err
		}
		user.AvatarName = key
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// List returns all upload metadata, newest first.
func (s *FileService) List(ctx context.Context) ([]domain.FileUpload, error) {
	return s.files.List(ctx)
}

// Get returns metadata and an open reader for the stored bytes. The caller
// owns closing the reader.
func (s *FileService) Get(ctx context.Context, id string) (*domain.FileUpload, io.ReadCloser, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, reader, nil
}

// OpenByKey returns a reader for stored bytes addressed directly by storage
// key, bypassing the metadata table. Used for serving avatars.
func (s *FileService) OpenByKey(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.store.Open(ctx, key)
}

// Remove deletes metadata first, then the stored bytes.
func (s *FileService) Remove(ctx context.Context, id string) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	return s.store.Remove(ctx, file.StorageKey)
}
