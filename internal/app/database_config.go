package app

import (
	"strings"

	"github.com/charlesng35/storeadmin/internal/database"
)

// DatabaseOptions converts the configured driver section into database.Config.
func (c DatabaseConfig) DatabaseOptions() database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		applyHost(&dbCfg, c.Postgres)
	case "mysql", "mariadb":
		dbCfg.Driver = "mysql"
		applyHost(&dbCfg, c.MySQL)
	default:
		// Left as-is so database.Open reports the unsupported driver.
	}

	return dbCfg
}

func applyHost(dbCfg *database.Config, src DBAuthConfig) {
	dbCfg.Host = strings.TrimSpace(src.Host)
	dbCfg.Port = src.Port
	dbCfg.Name = strings.TrimSpace(src.Database)
	dbCfg.User = strings.TrimSpace(src.Username)
	dbCfg.Password = src.Password
}
