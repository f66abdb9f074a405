package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

type fakeFileStore struct {
	objects map[string][]byte
}

func (f *fakeFileStore) Save(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

// Open reports a missing key immediately, mirroring the store drivers.
func (f *fakeFileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFileStore) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func newAvatarApp(store *fakeFileStore) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})
	handler := NewFilesHandler(service.NewFileService(nil, nil, store))
	app.Get("/files/avatar/:name", handler.GetAvatar)
	return app
}

func TestGetAvatarServesStoredBytes(t *testing.T) {
	store := &fakeFileStore{objects: map[string][]byte{"pic.png": []byte("png-bytes")}}
	app := newAvatarApp(store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/files/avatar/pic.png", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), body)
}

func TestGetAvatarMissingKeyIsNotFound(t *testing.T) {
	app := newAvatarApp(&fakeFileStore{objects: map[string][]byte{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/files/avatar/missing.png", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
