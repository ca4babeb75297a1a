package config

import (
	"time"

	"github.com/sparky-messaging/sparky-admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode       bool // enable dev mode for development
	DB            DB
	Log           logger.Log
	Title         string
	Webserver     Webserver
	Identity      Identity
	Impersonation Impersonation
	Uploads       Uploads
}

// Webserver implement webserver settings.
type Webserver struct {
	CacheEnabled   bool    // true = enable cache, false = disable cache
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Identity holds the connection settings for the hosted identity service.
type Identity struct {
	BaseURL string        // base url of the remote identity service
	APIKey  string        // anon/publishable api key sent with every request
	Timeout time.Duration // per-call timeout, defaults to a few seconds
}

// Impersonation settings for the support impersonation feature.
type Impersonation struct {
	// MaxAge is the retention window for a persisted impersonation record.
	// Records older than this are silently discarded on load. Defaults to 24h.
	MaxAge time.Duration
}

// Uploads settings for the asset upload area.
type Uploads struct {
	Dir         string // local directory holding uploaded files
	MaxSizeMB   int    // per-file size limit
	ListPageMax int    // max entries returned by the listing endpoint
}
