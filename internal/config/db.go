package config

const (
	// EngineMySQL selects the MySQL gorm driver and session storage.
	EngineMySQL = "mysql"
	// EnginePostgres selects the Postgres gorm driver and session storage.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string // mysql (default) or postgres
}

// Engine returns the configured gorm engine, defaulting to MySQL.
func (d DB) Engine() string {
	if d.GormEngine == "" {
		return EngineMySQL
	}

	return d.GormEngine
}
