package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Articles       *handlers.ArticlesHandler
	Comments       *handlers.CommentsHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Article reads are public; article
// writes and file management require Admin; everything else behind
// authentication admits any role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authed := cfg.AuthMiddleware.Authorize()
	adminOnly := cfg.AuthMiddleware.Authorize(domain.RoleAdmin)

	app.Post("/register", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)
	app.Post("/verify", cfg.Users.Verify)
	app.Post("/logout", authed, cfg.Users.Logout)
	app.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	app.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	app.Get("/users", authed, cfg.Users.GetAll)
	app.Get("/users/me", authed, cfg.Users.GetMyProfile)
	app.Delete("/users/me", authed, cfg.Users.Remove)
	app.Get("/users/:userId", authed, cfg.Users.GetSingle)
	app.Put("/users/:userId", authed, cfg.Users.Update)

	app.Get("/articles", cfg.Articles.GetAll)
	app.Post("/articles", adminOnly, cfg.Articles.Add)
	app.Get("/articles/:articleId", cfg.Articles.GetSingle)
	app.Put("/articles/:articleId", adminOnly, cfg.Articles.Update)
	app.Delete("/articles/:articleId", adminOnly, cfg.Articles.Remove)

	app.Get("/comments", authed, cfg.Comments.GetAll)
	app.Post("/comments", authed, cfg.Comments.Add)
	app.Get("/comments/:commentId", authed, cfg.Comments.GetSingle)
	app.Put("/comments/:commentId", authed, cfg.Comments.Update)
	app.Delete("/comments/:commentId", authed, cfg.Comments.Remove)

	app.Get("/files/avatar/:name", cfg.Files.GetAvatar)
	app.Get("/files", adminOnly, cfg.Files.GetAll)
	app.Post("/files", adminOnly, cfg.Files.Upload)
	app.Get("/files/:fileId", adminOnly, cfg.Files.GetSingle)
	app.Delete("/files/:fileId", adminOnly, cfg.Files.Remove)
}
