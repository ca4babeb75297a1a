// Package dashboard renders the console landing page with the signed-in
// account, the impersonation banner and the recent impersonation audit trail.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/controller/impersonationlog"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
	"github.com/sparky-messaging/sparky-admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// RecentAuditEntries is how many audit rows the dashboard shows.
	RecentAuditEntries = 10
)

// AuditRow is one impersonation audit entry for template rendering.
type AuditRow struct {
	ActorEmail  string
	TargetEmail string
	StartedAt   string
	EndedAt     string
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	manager *impersonation.Manager
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *impersonation.Manager) error {
	if app == nil || cfg == nil || db == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering. The identity shown is refreshed
// from the remote service first; an unreachable service degrades to the
// anonymous identity instead of failing the page.
func (s *Service) Get(c *fiber.Ctx) error {
	if _, err := s.manager.RefreshFromRemote(c.Context()); err != nil {
		log.Debug().Err(err).Msg("identity refresh on dashboard load failed")
	}

	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true).
		WithUser(s.manager.View())

	rows := make([]AuditRow, 0, RecentAuditEntries)

	entries, err := impersonationlog.ListRecent(s.db, RecentAuditEntries)
	if err != nil {
		log.Error().Err(err).Msg("failed to load impersonation audit trail")
	} else {
		for i := range entries {
			row := AuditRow{
				ActorEmail:  entries[i].ActorEmail,
				TargetEmail: entries[i].TargetEmail,
				StartedAt:   entries[i].StartedAt.Format("2006-01-02 15:04"),
			}
			if entries[i].EndedAt != nil {
				row.EndedAt = entries[i].EndedAt.Format("2006-01-02 15:04")
			} else {
				row.EndedAt = "active"
			}

			rows = append(rows, row)
		}
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"AuditRows":  rows,
	}, handler.BaseLayout)
}
