package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"rolloutlog.com/internal/api/middleware"
	"rolloutlog.com/internal/auth"
	"rolloutlog.com/internal/config"
	"rolloutlog.com/internal/domain"
)

// UserHandler serves the registration, session, and profile endpoints.
type UserHandler struct {
	authSvc domain.AuthService
	cfg     *config.Config
}

func NewUserHandler(authSvc domain.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{authSvc: authSvc, cfg: cfg}
}

type RegisterRequest struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	Password  string `json:"Password"`
}

type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"CurrentPassword"`
	NewPassword     string `json:"NewPassword"`
}

// Register creates an account.
// POST /api/users/register
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}

	user, err := h.authSvc.Register(c.UserContext(), domain.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered.",
		"user":    user,
	})
}

// Login verifies credentials, sets the session cookie, and also returns the
// token in the body for cookieless clients.
// POST /api/users/login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}

	token, user, err := h.authSvc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	h.setSessionCookie(c, token, time.Now().Add(auth.TokenTTL))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful.",
		"token":   token,
		"user":    user,
	})
}

// Logout revokes the presented token and clears the cookie.
// POST /api/users/logout
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.authSvc.Logout(c.UserContext(), middleware.TokenFromRequest(c)); err != nil {
		return handleError(c, err)
	}

	h.setSessionCookie(c, "", time.Now().Add(-time.Hour))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully."})
}

// GetProfile returns the caller's own record.
// GET /api/users/
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	user, err := h.authSvc.GetProfile(c.UserContext(), principal.ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// UpdateProfile changes name and email.
// POST /api/users/
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}

	user, err := h.authSvc.UpdateProfile(c.UserContext(), principal.ID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated.",
		"user":    user,
	})
}

// ChangePassword swaps the stored hash.
// POST /api/users/change-password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}

	if err := h.authSvc.ChangePassword(c.UserContext(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password changed."})
}

// Validate confirms the session is still good.
// GET /api/users/validate
func (h *UserHandler) Validate(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"valid": true})
}

func (h *UserHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   h.cfg.JWT.CookieDomain,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
