// Package logout ends the console session: the remote session is signed out
// for real and any active impersonation is cleared with it.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/login"
	"github.com/sparky-messaging/sparky-admin/internal/web/session"
)

// Path is the path of the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	cfg     *config.Config
	manager *impersonation.Manager
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *impersonation.Manager) {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)
}

// Logout signs the real account out remotely, clears any impersonation
// session and drops the browser session. A failing remote call still ends
// the local session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.manager.SignOut(c.Context()); err != nil {
		log.Warn().Err(err).Msg("remote sign-out failed during logout")
	}

	sessionID := c.Cookies("session")
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(login.Path)
}
