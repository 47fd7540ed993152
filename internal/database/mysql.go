package database

import (
	"errors"
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const defaultMySQLPort = 3306

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), gormConfig(cfg))
}

// buildMySQLDSN renders the driver DSN with utf8mb4, parsed times and UTC.
// A "tls" option selects a registered TLS profile; other options are passed
// through as connection parameters.
func buildMySQLDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	driverCfg := gomysql.NewConfig()
	driverCfg.User = cfg.User
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	driverCfg.DBName = cfg.Name
	driverCfg.ParseTime = true
	driverCfg.Loc = time.UTC
	driverCfg.Params = map[string]string{"charset": "utf8mb4"}

	for key, value := range cfg.Options {
		if key == "tls" {
			driverCfg.TLSConfig = value
			continue
		}
		driverCfg.Params[key] = value
	}

	return driverCfg.FormatDSN(), nil
}
