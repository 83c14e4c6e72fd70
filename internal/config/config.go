package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/pos/internal/log"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongodb"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	LogPath   string `mapstructure:"log_path"   json:"log_path"`
	TimeZone  string `mapstructure:"timezone"   json:"timezone"`
	Port      int    `mapstructure:"port"       json:"port"`
	AdminPort int    `mapstructure:"admin_port" json:"admin_port"`
}

// Location resolves the time zone used for day boundaries. Empty means the process local zone.
func (a Application) Location() (*time.Location, error) {
	if a.TimeZone == "" || strings.EqualFold(a.TimeZone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(a.TimeZone)
}

type Store struct {
	Driver             string        `mapstructure:"driver"               json:"driver"`
	Timeout            time.Duration `mapstructure:"timeout"              json:"timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures" json:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"      json:"breaker_timeout"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Mongo struct {
	URI        string `mapstructure:"uri"        json:"-"`
	Database   string `mapstructure:"database"   json:"database"`
	Collection string `mapstructure:"collection" json:"collection"`
}

type Cache struct {
	Host      string        `mapstructure:"host"       json:"host"`
	Password  string        `mapstructure:"password"   json:"-"`
	ReportTTL time.Duration `mapstructure:"report_ttl" json:"report_ttl"`
	Database  int           `mapstructure:"database"   json:"database"`
	Port      uint16        `mapstructure:"port"       json:"port"`
}

type Otel struct {
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Mongo       `mapstructure:"mongo"       json:"mongo"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Store       `mapstructure:"store"       json:"store"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

// InitConfig loads the process configuration once from ./env/<filename>.yaml. A missing or
// malformed file is fatal.
func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		logger.Info().Msg("loading config")
		cfg, err := Load(filename, "./env")
		if err != nil {
			err = fmt.Errorf("failed loading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(log.KeyConfig, cfg).Msg("loaded config")
	})
	return config
}

func Load(filename string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(filename)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix("pos")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error when reading config with error=%w", err)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.admin_port", 8081)
	v.SetDefault("application.log_path", "/var/log/pos.log")
	v.SetDefault("application.timezone", "")
	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.timeout", 10*time.Second)
	v.SetDefault("store.breaker_max_failures", 5)
	v.SetDefault("store.breaker_timeout", 30*time.Second)
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)
	v.SetDefault("mongo.collection", "transactions")
	v.SetDefault("cache.report_ttl", 5*time.Minute)
	v.SetDefault("otel.port", 4317)
}

func (cfg Config) validate() error {
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		return fmt.Errorf("unknown store driver=%s", cfg.Store.Driver)
	}
	if _, err := cfg.Application.Location(); err != nil {
		return fmt.Errorf("invalid timezone=%s with error=%w", cfg.Application.TimeZone, err)
	}
	return nil
}
