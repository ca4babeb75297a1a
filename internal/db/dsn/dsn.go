// Package dsn provides Data Source Name construction for database connections.
package dsn

import (
	"fmt"

	"github.com/sparky-messaging/sparky-admin/internal/config"
)

// Create builds the Data Source Name for the configured driver.
func Create(cfg *config.Config) string {
	if cfg.DB.Driver == config.DriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Extras,
		)
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}
