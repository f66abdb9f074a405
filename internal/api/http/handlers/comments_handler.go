package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// CommentsHandler exposes comment CRUD for authenticated users.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// GetAll handles GET /comments?article_id=...
func (h *CommentsHandler) GetAll(c *fiber.Ctx) error {
	articleID := c.Query("article_id")
	if articleID == "" {
		return fiber.NewError(http.StatusBadRequest, "article_id query parameter required")
	}
	comments, err := h.comments.ListByArticle(c.UserContext(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}

// GetSingle handles GET /comments/:commentId.
func (h *CommentsHandler) GetSingle(c *fiber.Ctx) error {
	comment, err := h.comments.Get(c.UserContext(), c.Params("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Add handles POST /comments.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ArticleID == "" {
		return fiber.NewError(http.StatusBadRequest, "article_id required")
	}

	comment, err := h.comments.Add(c.UserContext(), principal.User.ID, req.ArticleID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Update handles PUT /comments/:commentId.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	comment, err := h.comments.Update(c.UserContext(), principal.User.ID, principal.HasRole(domain.RoleAdmin), c.Params("commentId"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Remove handles DELETE /comments/:commentId.
func (h *CommentsHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.comments.Delete(c.UserContext(), principal.User.ID, principal.HasRole(domain.RoleAdmin), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
