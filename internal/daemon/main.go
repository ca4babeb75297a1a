// Package daemon is the composition root: it opens the database, the
// storage backends and the identity gateway, builds the impersonation
// manager and hands everything to the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	storagememory "github.com/gofiber/storage/memory/v2"
	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/dsn"
	"github.com/sparky-messaging/sparky-admin/internal/db/models"
	"github.com/sparky-messaging/sparky-admin/internal/identity/gateway"
	"github.com/sparky-messaging/sparky-admin/internal/impersonation"
	"github.com/sparky-messaging/sparky-admin/internal/web"
	"github.com/sparky-messaging/sparky-admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	addr       string
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(d.addr)
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDatabase(cfg)

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.ImpersonationLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	sessionStorage, impersonationStorage := openStorage(cfg)
	session.Init(sessionStorage)

	gw := gateway.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey, cfg.Identity.Timeout)

	store := impersonation.NewStore(impersonationStorage, cfg.Impersonation.MaxAge)
	manager := impersonation.NewManager(store, gateway.NewPassthrough(gw), cfg.Identity.Timeout)

	manager.OnChange(func(v impersonation.View) {
		log.Debug().
			Bool("impersonating", v.IsImpersonating).
			Str("displayName", v.DisplayName).
			Msg("presented identity changed")
	})

	return &Daemon{
		webService: web.New(cfg, db, gw, manager),
		addr:       fmt.Sprintf(":%d", cfg.Webserver.Port),
	}
}

// openDatabase connects gorm to the configured backend. Dev mode uses an
// embedded sqlite file so the console runs without external services.
func openDatabase(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch {
	case cfg.DevMode:
		dialector = sqlite.Open("sparky-admin.db")
	case cfg.DB.Driver == config.DriverPostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	return db
}

// openStorage creates the fiber storage backends for browser sessions and
// the persisted impersonation record. They share a database but use
// separate tables so clearing one never touches the other.
func openStorage(cfg *config.Config) (sessions, records fiber.Storage) {
	if cfg.DevMode {
		return storagememory.New(), storagememory.New()
	}

	if cfg.DB.Driver == config.DriverPostgres {
		connString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)

		sessions = storagepostgres.New(storagepostgres.Config{
			ConnectionURI: connString,
			Table:         "sessions",
		})
		records = storagepostgres.New(storagepostgres.Config{
			ConnectionURI: connString,
			Table:         "impersonation_state",
		})

		return sessions, records
	}

	sessions = storagemysql.New(storagemysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
	records = storagemysql.New(storagemysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "impersonation_state",
	})

	return sessions, records
}
