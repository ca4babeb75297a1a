// Package web assembles the fiber application: middleware, templates,
// static assets and all route handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/identity/gateway"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	fiberlogger "github.com/sparky-messaging/sparky-admin/internal/logger/adapter/fiber"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/dashboard"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/directory"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/impersonate"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/login"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/logout"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler/uploads"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/livez"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	gw           *gateway.Client
	manager      *impersonation.Manager
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the console.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail the health check first so
	// the LB removes this pod from active targets before the listener stops.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, gw *gateway.Client, manager *impersonation.Manager) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if gw == nil || manager == nil {
		panic("gateway and manager cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "Sparky-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		cfg:     cfg,
		App:     app,
		db:      db,
		gw:      gw,
		manager: manager,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     false,
			},
		),
	)

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(service.AuthMiddleware)

	// init handlers (they register their own routes)
	if err := login.Handler.Init(app, cfg, db, gw, manager); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg, manager)

	if err := dashboard.Handler.Init(app, cfg, db, manager); err != nil {
		log.Fatal().Err(err).Msg("failed to init dashboard handler")
	}

	if err := directory.Handler.Init(app, cfg, db, manager); err != nil {
		log.Fatal().Err(err).Msg("failed to init directory handler")
	}

	if err := impersonate.Handler.Init(app, cfg, db, manager); err != nil {
		log.Fatal().Err(err).Msg("failed to init impersonation handler")
	}

	if err := uploads.Handler.Init(app, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to init uploads handler")
	}

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	return service
}
