package api

import (
	"github.com/gofiber/fiber/v2"

	"rolloutlog.com/internal/api/middleware"
	"rolloutlog.com/internal/domain"
	"rolloutlog.com/internal/model"
)

// ChangeLogHandler serves the rollout ticket record endpoints.
type ChangeLogHandler struct {
	changeLogSvc domain.ChangeLogService
}

func NewChangeLogHandler(changeLogSvc domain.ChangeLogService) *ChangeLogHandler {
	return &ChangeLogHandler{changeLogSvc: changeLogSvc}
}

type CreateChangeLogRequest struct {
	TicketInfo []string `json:"TicketInfo"`
}

// Create records one change log with one detail row per ticket reference.
// POST /api/changeLog/  (also /api/changeLog/create)
func (h *ChangeLogHandler) Create(c *fiber.Ctx) error {
	var req CreateChangeLogRequest
	if err := c.BodyParser(&req); err != nil {
		// A non-array TicketInfo fails here, before anything is inserted.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "TicketInfo (array) is required."})
	}

	actor := model.SystemActor
	if principal, ok := middleware.PrincipalFromCtx(c); ok {
		actor = principal.Email
	}

	changeLog, err := h.changeLogSvc.Create(c.UserContext(), actor, req.TicketInfo)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Ticket created.",
		"changeLog": changeLog,
	})
}

// List returns the newest change logs, capped at three.
// GET /api/changeLog/
func (h *ChangeLogHandler) List(c *fiber.Ctx) error {
	changeLogs, err := h.changeLogSvc.List(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(changeLogs)
}
