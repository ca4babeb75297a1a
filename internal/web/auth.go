package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sparky-messaging/sparky-admin/internal/web/handler/login"
	"github.com/sparky-messaging/sparky-admin/internal/web/session"
)

// openPrefixes are served without a console session.
var openPrefixes = []string{
	"/static",
	"/livez",
	"/metrics",
}

// AuthMiddleware gates every page behind the console session. API routes
// answer 401 JSON instead of redirecting, pages bounce to the login form.
func (s *Service) AuthMiddleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.OriginalURL())

	for _, prefix := range openPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return c.Next()
		}
	}

	isLoginPage := IsLoginPage(c)

	sessionID := c.Cookies("session")
	if sessionID == "" && !isLoginPage {
		return s.reject(c)
	}

	sessData := new(session.Data)
	_ = sessData.Read(sessionID)

	sessDataValid := !sessData.Identity.IsAnonymous()

	if sessDataValid && sessData.AccessToken != "" {
		// re-arm the gateway after a process restart so remote calls keep working
		if _, err := s.gw.Token(); err != nil {
			s.gw.RestoreToken(sessData.AccessToken, sessData.RefreshToken, sessData.TokenExpiry)
		}
	}

	if !sessDataValid && !isLoginPage {
		return s.reject(c)
	}

	if sessDataValid && isLoginPage {
		return c.Redirect("/dashboard")
	}

	return c.Next()
}

func (s *Service) reject(c *fiber.Ctx) error {
	if strings.HasPrefix(strings.ToLower(c.OriginalURL()), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not signed in"})
	}

	return c.Redirect(login.Path)
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.OriginalURL()), login.Path)
}
