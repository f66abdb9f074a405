package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// UsersHandler exposes registration, authentication and profile endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Register handles POST /register. The verification token travels by mail,
// so the response body stays empty.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	if _, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// Login handles POST /login: 200 {token} on success, 401 {message} on a
// failed credential check.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	_, token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusUnauthorized {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": domainErr.Message})
		}
		return err
	}

	return c.JSON(dto.LoginResponse{Token: token})
}

// Verify handles POST /verify, consuming an account verification token.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.VerifyToken == "" {
		return fiber.NewError(http.StatusBadRequest, "verifyToken required")
	}

	if _, err := h.auth.Verify(c.UserContext(), req.VerifyToken); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// Logout handles POST /logout, revoking the presented token.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// Remove handles DELETE /users/me: revokes every live token for the
// account, then deletes it.
func (h *UsersHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.auth.RemoveAccount(c.UserContext(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// RequestPasswordReset handles POST /password/reset/request.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}
	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// ConfirmPasswordReset handles POST /password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ResetToken == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "resetToken and newPassword required")
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.ResetToken, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// GetAll handles GET /users.
func (h *UsersHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.UserResponse, len(users))
	for i := range users {
		result[i] = dto.NewUserResponse(&users[i])
	}
	return c.JSON(fiber.Map{"data": result})
}

// GetSingle handles GET /users/:userId.
func (h *UsersHandler) GetSingle(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetMyProfile handles GET /users/me.
func (h *UsersHandler) GetMyProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// Update handles PUT /users/:userId. Callers may only update themselves.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if c.Params("userId") != principal.User.ID {
		return apperrors.NewForbidden("can only update own profile")
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.User.ID, service.UpdateProfileInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
