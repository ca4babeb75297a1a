// Package login provides the sign-in page. Credentials are never verified
// locally; they are forwarded to the identity service, which answers with a
// token or a rejection.
package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/controller/profile"
	"github.com/sparky-messaging/sparky-admin/internal/identity"
	"github.com/sparky-messaging/sparky-admin/internal/identity/gateway"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
	"github.com/sparky-messaging/sparky-admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// credentials is the sign-in form shape.
type credentials struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	gw       *gateway.Client
	manager  *impersonation.Manager
	validate *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gw *gateway.Client, manager *impersonation.Manager) error {
	if app == nil || cfg == nil || db == nil || gw == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.cfg = cfg
	s.db = db
	s.gw = gw
	s.manager = manager
	s.validate = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"title": s.cfg.Title,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(credentials)

	if err := c.BodyParser(creds); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	if err := s.validate.Struct(creds); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	if _, err := s.gw.SignIn(c.Context(), creds.Email, creds.Password); err != nil {
		log.Info().Str("email", creds.Email).Err(err).Msg("sign-in rejected")

		return s.renderError(c, "Invalid email or password")
	}

	realIdentity, err := s.manager.RefreshFromRemote(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve identity after sign-in")

		return s.renderError(c, "Internal server error")
	}

	s.mirrorProfile(realIdentity)

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.renderError(c, "Internal server error")
	}

	sessData := &session.Data{Identity: realIdentity}

	if tok, tokenErr := s.gw.Token(); tokenErr == nil {
		sessData.AccessToken = tok.AccessToken
		sessData.RefreshToken = tok.RefreshToken
		sessData.TokenExpiry = tok.Expiry
	}

	if err = sessData.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.renderError(c, "Internal server error")
	}

	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/dashboard")
}

// mirrorProfile refreshes the local directory row for the signed-in account
// so candidate listings see current role data. Failures only degrade the
// directory, never the login.
func (s *Service) mirrorProfile(id identity.Identity) {
	if id.IsAnonymous() {
		return
	}

	row, err := profile.GetByEmail(s.db, id.Email)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			log.Warn().Err(err).Msg("failed to read directory row at login")
		}

		return
	}

	row.Role = id.PrimaryRole.String()
	row.SecondaryRole = id.SecondaryRole.String()
	if err := profile.Upsert(s.db, row); err != nil {
		log.Warn().Err(err).Str("profile", id.ID).Msg("failed to refresh directory row at login")
	}
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"title": s.cfg.Title,
		"error": msg,
	})
}
