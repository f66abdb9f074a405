package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// ArticlesHandler exposes article CRUD. Reads are public; writes sit behind
// the Admin role gate in the router.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articleService}
}

// GetAll handles GET /articles.
func (h *ArticlesHandler) GetAll(c *fiber.Ctx) error {
	articles, err := h.articles.List(c.UserContext(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	result := make([]dto.ArticleResponse, len(articles))
	for i := range articles {
		result[i] = dto.NewArticleResponse(&articles[i])
	}
	return c.JSON(fiber.Map{"data": result})
}

// GetSingle handles GET /articles/:articleId, including comments.
func (h *ArticlesHandler) GetSingle(c *fiber.Ctx) error {
	article, comments, err := h.articles.Get(c.UserContext(), c.Params("articleId"))
	if err != nil {
		return err
	}
	resp := dto.NewArticleResponse(article)
	resp.Comments = dto.NewCommentResponses(comments)
	return c.JSON(fiber.Map{"data": resp})
}

// Add handles POST /articles.
func (h *ArticlesHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	article, err := h.articles.Create(c.UserContext(), principal.User.ID, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update handles PUT /articles/:articleId.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	article, err := h.articles.Update(c.UserContext(), c.Params("articleId"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Remove handles DELETE /articles/:articleId.
func (h *ArticlesHandler) Remove(c *fiber.Ctx) error {
	if err := h.articles.Delete(c.UserContext(), c.Params("articleId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:           req.Title,
		Content:         req.Content,
		Summary:         req.Summary,
		Tags:            req.Tags,
		CommentsAllowed: req.CommentsAllowed,
	}
}
