// Package directory renders the account directory page and its JSON listing.
package directory

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/controller/profile"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
	"github.com/sparky-messaging/sparky-admin/internal/web/navigation"
)

const (
	// Path is the path to the directory page.
	Path = handler.RootPath + "directory"

	// APIPath is the path of the JSON directory listing.
	APIPath = "/api/directory"

	// TemplateName is the name of the directory template.
	TemplateName = "directory/directory"
)

// Entry is one directory row for rendering and JSON responses.
type Entry struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	Role          string `json:"role"`
	SecondaryRole string `json:"secondaryRole,omitempty"`
}

// Service is the directory handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	manager *impersonation.Manager
}

// Handler is the directory handler.
var Handler = Service{}

// Init initializes the directory handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *impersonation.Manager) error {
	if app == nil || cfg == nil || db == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager

	app.Get(Path, s.Get)
	app.Get(APIPath, s.List)

	return nil
}

func (s *Service) entries() ([]Entry, error) {
	rows, err := profile.List(s.db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	out := make([]Entry, 0, len(rows))
	for i := range rows {
		id := rows[i].Identity()
		out = append(out, Entry{
			ID:            id.ID,
			Email:         id.Email,
			DisplayName:   id.DisplayName,
			Role:          id.PrimaryRole.String(),
			SecondaryRole: id.SecondaryRole.String(),
		})
	}

	return out, nil
}

// Get handles the directory page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	entries, err := s.entries()
	if err != nil {
		log.Error().Err(err).Msg("failed to list directory")

		return fiber.ErrInternalServerError
	}

	nav := navigation.NewContext("Directory", "directory", "directory").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Directory", Path, true).
		WithUser(s.manager.View())

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Entries":    entries,
	}, handler.BaseLayout)
}

// List handles the JSON directory listing.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := s.entries()
	if err != nil {
		log.Error().Err(err).Msg("failed to list directory")

		return fiber.ErrInternalServerError
	}

	return c.JSON(entries)
}
