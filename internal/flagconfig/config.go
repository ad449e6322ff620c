// Package flagconfig loads the server's TOML configuration file, grounded on
// the teacher's catalogsrv/config package: a package-level ConfigParam
// decoded with BurntSushi/toml, validated, and exposed through Config().
package flagconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mbuczko/flagrant/internal/flagstore/postgresql"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	HostName           string `toml:"hostname"`
	Port               string `toml:"port"`
	HandleCORS         bool   `toml:"handle_cors"`
	MaxRequestBodySize int64  `toml:"max_request_body_size"`
	RequestTimeout     string `toml:"request_timeout"`
}

// GetRequestTimeout parses RequestTimeout, defaulting to 30s when unset or invalid.
func (s *ServerConfig) GetRequestTimeout() time.Duration {
	if s.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(s.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DBConfig holds Postgres connection pool settings.
type DBConfig struct {
	Host                            string `toml:"host"`
	Port                            int    `toml:"port"`
	DBName                          string `toml:"dbname"`
	User                            string `toml:"user"`
	Password                        string `toml:"password"`
	SSLMode                         string `toml:"sslmode"`
	MaxOpenConns                    int    `toml:"max_open_conns"`
	MaxIdleConns                    int    `toml:"max_idle_conns"`
	ConnMaxLifetime                 string `toml:"conn_max_lifetime"`
	ConnMaxIdleTime                 string `toml:"conn_max_idle_time"`
	LockTimeout                     string `toml:"lock_timeout"`
	StatementTimeout                string `toml:"statement_timeout"`
	IdleInTransactionSessionTimeout string `toml:"idle_in_transaction_session_timeout"`
}

// DSN builds a libpq-style connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func parseDurationOrZero(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// ToPoolConfig adapts the TOML db section into postgresql.Config.
func (d *DBConfig) ToPoolConfig() postgresql.Config {
	return postgresql.Config{
		DSN:                             d.DSN(),
		MaxOpenConns:                    d.MaxOpenConns,
		MaxIdleConns:                    d.MaxIdleConns,
		ConnMaxLifetime:                 parseDurationOrZero(d.ConnMaxLifetime),
		ConnMaxIdleTime:                 parseDurationOrZero(d.ConnMaxIdleTime),
		LockTimeout:                     parseDurationOrZero(d.LockTimeout),
		StatementTimeout:                parseDurationOrZero(d.StatementTimeout),
		IdleInTransactionSessionTimeout: parseDurationOrZero(d.IdleInTransactionSessionTimeout),
	}
}

// ConfigParam holds every configuration parameter flagrant-server needs.
type ConfigParam struct {
	FormatVersion string       `toml:"format_version"`
	Server        ServerConfig `toml:"server"`
	DB            DBConfig     `toml:"db"`
}

var cfg *ConfigParam

// Config returns the currently loaded configuration.
func Config() *ConfigParam {
	return cfg
}

// LoadConfig reads and validates the TOML config file at filename.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	parsed := &ConfigParam{}
	if _, err := toml.Decode(string(content), parsed); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if err := ValidateConfig(parsed); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = parsed
	return nil
}

// ValidateConfig checks that the required fields of parsed are present.
func ValidateConfig(parsed *ConfigParam) error {
	if parsed.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if parsed.DB.Host == "" {
		return fmt.Errorf("db.host is required")
	}
	if parsed.DB.DBName == "" {
		return fmt.Errorf("db.dbname is required")
	}
	return nil
}
