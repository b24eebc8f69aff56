package api

import (
	"github.com/gofiber/fiber/v2"

	"rolloutlog.com/internal/api/middleware"
	"rolloutlog.com/internal/config"
	"rolloutlog.com/internal/domain"
)

// Router wires handlers onto the Fiber app.
type Router struct {
	app          *fiber.App
	cfg          *config.Config
	authSvc      domain.AuthService
	changeLogSvc domain.ChangeLogService
}

func NewRouter(app *fiber.App, cfg *config.Config, authSvc domain.AuthService, changeLogSvc domain.ChangeLogService) *Router {
	return &Router{
		app:          app,
		cfg:          cfg,
		authSvc:      authSvc,
		changeLogSvc: changeLogSvc,
	}
}

// RegisterRoutes registers all business routes. Register and login are
// public; everything else sits behind the auth middleware.
func (r *Router) RegisterRoutes() {
	userHandler := NewUserHandler(r.authSvc, r.cfg)
	changeLogHandler := NewChangeLogHandler(r.changeLogSvc)

	authRequired := middleware.Authenticate(r.authSvc)

	users := r.app.Group("/api/users")
	users.Post("/register", userHandler.Register)
	users.Post("/login", userHandler.Login)

	users.Post("/logout", authRequired, userHandler.Logout)
	users.Get("/", authRequired, userHandler.GetProfile)
	users.Post("/", authRequired, userHandler.UpdateProfile)
	users.Post("/change-password", authRequired, userHandler.ChangePassword)
	users.Get("/validate", authRequired, userHandler.Validate)

	changeLog := r.app.Group("/api/changeLog", authRequired)
	changeLog.Post("/", changeLogHandler.Create)
	changeLog.Post("/create", changeLogHandler.Create)
	changeLog.Get("/", changeLogHandler.List)
}
