package handlers

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const fileFieldName = "file"

// FilesHandler exposes upload management. Uploads flagged avatar=true also
// stamp the uploader's profile.
type FilesHandler struct {
	files *service.FileService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(fileService *service.FileService) *FilesHandler {
	return &FilesHandler{files: fileService}
}

// Upload handles POST /files (multipart form, field "file").
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	header, err := c.FormFile(fileFieldName)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "file field required")
	}
	reader, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer reader.Close()

	file, err := h.files.Upload(c.UserContext(), principal.User.ID, service.UploadInput{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		Reader:       reader,
		IsAvatar:     c.FormValue("avatar") == "true",
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewFileResponse(file)})
}

// GetAll handles GET /files.
func (h *FilesHandler) GetAll(c *fiber.Ctx) error {
	files, err := h.files.List(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.FileResponse, len(files))
	for i := range files {
		result[i] = dto.NewFileResponse(&files[i])
	}
	return c.JSON(fiber.Map{"data": result})
}

// GetSingle handles GET /files/:fileId, streaming the stored bytes.
func (h *FilesHandler) GetSingle(c *fiber.Ctx) error {
	file, reader, err := h.files.Get(c.UserContext(), c.Params("fileId"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, file.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.OriginalName+`"`)
	return c.SendStream(reader, int(file.SizeBytes))
}

// GetAvatar handles GET /files/avatar/:name. Avatars render on public
// profiles, so no auth gate applies.
func (h *FilesHandler) GetAvatar(c *fiber.Ctx) error {
	name := c.Params("name")
	reader, err := h.files.OpenByKey(c.UserContext(), name)
	if err != nil {
		return apperrors.NewNotFound("avatar", nil)
	}

	if mimeType := mime.TypeByExtension(filepath.Ext(name)); mimeType != "" {
		c.Set(fiber.HeaderContentType, mimeType)
	}
	return c.SendStream(reader)
}

// Remove handles DELETE /files/:fileId.
func (h *FilesHandler) Remove(c *fiber.Ctx) error {
	if err := h.files.Remove(c.UserContext(), c.Params("fileId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
