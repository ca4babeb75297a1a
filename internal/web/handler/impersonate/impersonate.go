// Package impersonate exposes the support-impersonation API consumed by the
// navigation header: listing candidates, starting and ending a session, and
// reading the current status.
package impersonate

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/controller/impersonationlog"
	"github.com/sparky-messaging/sparky-admin/internal/db/controller/profile"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
)

// Path is the base path of the impersonation API.
const Path = "/api/impersonation"

// startRequest is the body of a start call.
type startRequest struct {
	TargetID string `json:"targetId" validate:"required,uuid"`
}

// candidate is one impersonatable account in a listing response.
type candidate struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Service is the impersonation API handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	manager  *impersonation.Manager
	validate *validator.Validate
}

// Handler is the impersonation API handler.
var Handler = Service{}

// Init initializes the impersonation API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *impersonation.Manager) error {
	if app == nil || cfg == nil || db == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager
	s.validate = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get("/candidates", s.Candidates)
		router.Post("/start", s.Start)
		router.Post("/exit", s.Exit)
		router.Get("/status", s.Status)
	})

	return nil
}

// Candidates lists the accounts the signed-in user may impersonate.
func (s *Service) Candidates(c *fiber.Ctx) error {
	actor := s.manager.Real()
	if actor.IsAnonymous() {
		return fiber.NewError(fiber.StatusUnauthorized, "not signed in")
	}

	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "not signed in")
	}

	actorRow, err := profile.Get(s.db, actorID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return c.JSON([]candidate{})
		}

		log.Error().Err(err).Msg("failed to read actor directory row")

		return fiber.ErrInternalServerError
	}

	rows, err := profile.Candidates(s.db, actorRow)
	if err != nil {
		log.Error().Err(err).Msg("failed to list impersonation candidates")

		return fiber.ErrInternalServerError
	}

	out := make([]candidate, 0, len(rows))
	for i := range rows {
		id := rows[i].Identity()
		out = append(out, candidate{
			ID:          id.ID,
			Email:       id.Email,
			DisplayName: id.DisplayName,
			Role:        id.PrimaryRole.String(),
		})
	}

	return c.JSON(out)
}

// Start begins impersonating the requested target.
func (s *Service) Start(c *fiber.Ctx) error {
	req := new(startRequest)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "targetId must be a uuid")
	}

	actor := s.manager.Real()
	if actor.IsAnonymous() {
		return fiber.NewError(fiber.StatusUnauthorized, "not signed in")
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "targetId must be a uuid")
	}

	targetRow, err := profile.Get(s.db, targetID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "target not found")
		}

		log.Error().Err(err).Msg("failed to read target directory row")

		return fiber.ErrInternalServerError
	}

	sess, err := s.manager.Start(actor, targetRow.Identity())
	if err != nil {
		var permErr *impersonation.PermissionError
		if errors.As(err, &permErr) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":      "permission denied",
				"actorRole":  permErr.ActorRole.String(),
				"targetRole": permErr.TargetRole.String(),
			})
		}

		if errors.Is(err, impersonation.ErrAlreadyImpersonating) {
			return fiber.NewError(fiber.StatusConflict, "already impersonating, exit first")
		}

		log.Error().Err(err).Msg("failed to start impersonation")

		return fiber.ErrInternalServerError
	}

	// the audit row is best effort, a write failure never undoes the session
	if _, err := impersonationlog.RecordStart(s.db, sess.Real, sess.Presented, sess.StartedAt); err != nil {
		log.Error().Err(err).Msg("failed to write impersonation audit entry")
	}

	return c.JSON(s.manager.View())
}

// Exit ends the active impersonation. Exiting while idle is a no-op and
// still answers with the current status.
func (s *Service) Exit(c *fiber.Ctx) error {
	wasActive := s.manager.IsImpersonating()
	actor := s.manager.Real()

	s.manager.Exit(c.Context())

	if wasActive {
		if actorID, err := uuid.Parse(actor.ID); err == nil {
			if err := impersonationlog.RecordEnd(s.db, actorID, time.Now()); err != nil {
				log.Error().Err(err).Msg("failed to close impersonation audit entry")
			}
		}
	}

	return c.JSON(s.manager.View())
}

// Status reports the current presenter view.
func (s *Service) Status(c *fiber.Ctx) error {
	return c.JSON(s.manager.View())
}
