package config

// Supported database drivers. Dev mode ignores the setting and uses an
// embedded sqlite database instead.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Driver   string // mysql or postgres; dev mode ignores this and uses sqlite
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
