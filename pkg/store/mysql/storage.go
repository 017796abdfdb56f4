package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

const defaultPort = 3306

type Settings struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

func (s Settings) Config() *gomysql.Config {
	port := s.Port
	if port == 0 {
		port = defaultPort
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, strconv.Itoa(port))
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
		cfg.ReadTimeout = s.Timeout
	}
	return cfg
}

func NewDB(settings Settings) (*sql.DB, error) {
	if settings.Host == "" || settings.User == "" || settings.Database == "" {
		return nil, fmt.Errorf("missing database connection settings")
	}

	c, err := gomysql.NewConnector(settings.Config())
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}

	db := sql.OpenDB(c)
	db.SetConnMaxLifetime(3 * time.Minute)
	return db, nil
}
