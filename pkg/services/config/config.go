package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/services/activity"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

type Config struct {
	Server   ServerConfig            `mapstructure:"server"`
	Database DatabaseConfig          `mapstructure:"database"`
	Snapshot SnapshotConfig          `mapstructure:"snapshot"`
	Report   ReportConfig            `mapstructure:"report"`
	Offices  map[string]OfficeConfig `mapstructure:"offices"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required"`
}

type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

type ReportConfig struct {
	// UnresolvedPolicy is one of keep, exclude or label.
	UnresolvedPolicy string        `mapstructure:"unresolved_policy"`
	UnresolvedLabel  string        `mapstructure:"unresolved_label"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// OfficeConfig describes one procuradoria. AllowList is a pointer so an absent key
// (no restriction) stays distinguishable from an explicit empty list.
type OfficeConfig struct {
	Title             string    `mapstructure:"title"`
	AllowList         *[]string `mapstructure:"allow_list"`
	DefaultStart      string    `mapstructure:"default_start"`
	Categories        []string  `mapstructure:"categories"`
	ResponsibleSource string    `mapstructure:"responsible_source"`
}

var envBindings = map[string]string{
	"server.host":       "SERVER_HOST",
	"server.port":       "SERVER_PORT",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.database": "DB_DATABASE",
	"snapshot.path":     "SNAPSHOT_PATH",
}

// Load reads the YAML file at path. An empty path searches for atlas.yaml in the
// working directory and $HOME/.config/atlas, and tolerates its absence.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.port", 3306)
	v.SetDefault("snapshot.path", "atlas.db")
	v.SetDefault("report.unresolved_policy", "keep")
	v.SetDefault("report.unresolved_label", "unknown")
	v.SetDefault("report.request_timeout", "30s")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("atlas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/atlas")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse atlas config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem of the office and server sections at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port != "" {
		if _, err := strconv.Atoi(c.Server.Port); err != nil {
			errs = append(errs, fmt.Errorf("server.port %q is not a number", c.Server.Port))
		}
	}
	if _, err := activity.ParseUnresolvedPolicy(c.Report.UnresolvedPolicy); err != nil {
		errs = append(errs, fmt.Errorf("report.unresolved_policy: %w", err))
	}
	if len(c.Offices) == 0 {
		errs = append(errs, errors.New("no offices configured"))
	}
	for _, code := range sortedKeys(c.Offices) {
		if _, err := c.Offices[code].toDomain(code); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Validate reports every missing connection setting at once.
func (d DatabaseConfig) Validate() error {
	var errs []error
	if d.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if d.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if d.Database == "" {
		errs = append(errs, errors.New("database.database is required"))
	}
	if d.Port < 0 || d.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port %d is out of range", d.Port))
	}
	return errors.Join(errs...)
}

// OfficeList returns the configured offices ordered by code. Codes are upper-cased
// because viper folds map keys to lower case.
func (c *Config) OfficeList() ([]domain.Office, error) {
	offices := make([]domain.Office, 0, len(c.Offices))
	for _, key := range sortedKeys(c.Offices) {
		office, err := c.Offices[key].toDomain(key)
		if err != nil {
			return nil, err
		}
		offices = append(offices, office)
	}
	return offices, nil
}

func (oc OfficeConfig) toDomain(key string) (domain.Office, error) {
	code := strings.ToUpper(key)
	office := domain.Office{
		Code:              code,
		Title:             oc.Title,
		ResponsibleSource: domain.ResponsibleByName,
	}
	if office.Title == "" {
		office.Title = code
	}

	var errs []error
	if oc.AllowList != nil {
		office.AllowList = domain.NewAllowList(*oc.AllowList...)
	}

	if oc.DefaultStart != "" {
		start, err := time.Parse(dateLayout, oc.DefaultStart)
		if err != nil {
			errs = append(errs, fmt.Errorf("offices.%s.default_start %q: expected YYYY-MM-DD", code, oc.DefaultStart))
		}
		office.DefaultStart = start
	}

	switch src := domain.ResponsibleSource(oc.ResponsibleSource); src {
	case "", domain.ResponsibleByName:
	case domain.ResponsibleByUser:
		office.ResponsibleSource = src
	default:
		errs = append(errs, fmt.Errorf("offices.%s.responsible_source %q: expected name or user_id", code, oc.ResponsibleSource))
	}

	if len(oc.Categories) == 0 {
		office.Categories = append([]domain.Category(nil), domain.ReportCategories...)
	}
	for _, raw := range oc.Categories {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("offices.%s.categories: %w", code, err))
			continue
		}
		office.Categories = append(office.Categories, cat)
	}

	if err := errors.Join(errs...); err != nil {
		return domain.Office{}, err
	}
	return office, nil
}

func sortedKeys(m map[string]OfficeConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
