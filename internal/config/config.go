package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Chat     ChatConfig     `yaml:"chat"`
	Requests RequestsConfig `yaml:"requests"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects between MySQL (production) and a SQLite file for
// local development.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTLH int    `yaml:"token_ttl_hours"`
	// APIBaseURL is where the site's sign-in and sign-up forms send their
	// requests. Empty means this server.
	APIBaseURL string `yaml:"api_base_url"`
}

type ChatConfig struct {
	ReplyDelayMS int `yaml:"reply_delay_ms"`
	IdleTTLMin   int `yaml:"idle_ttl_minutes"`
}

// RequestsConfig bounds how long an unused triage board is kept in memory.
type RequestsConfig struct {
	IdleTTLMin int `yaml:"idle_ttl_minutes"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 8081},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Driver: "sqlite", Port: 3306, Name: "volunteer_connect", Path: "volunteer-connect.db"},
		Auth:     AuthConfig{JWTSecret: "volunteer-connect-dev-secret", TokenTTLH: 7 * 24},
		Chat:     ChatConfig{ReplyDelayMS: 1000, IdleTTLMin: 30},
		Requests: RequestsConfig{IdleTTLMin: 120},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/volunteer-connect/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.Path, "DB_PATH")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Auth.APIBaseURL, "AUTH_API_BASE_URL")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideInt(&c.Chat.ReplyDelayMS, "CHAT_REPLY_DELAY_MS")
	envOverrideInt(&c.Requests.IdleTTLMin, "REQUESTS_IDLE_TTL_MINUTES")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// AuthAPIBaseURL falls back to the local server when no external auth API is
// configured.
func (c *Config) AuthAPIBaseURL() string {
	if c.Auth.APIBaseURL != "" {
		return c.Auth.APIBaseURL
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLH) * time.Hour
}

func (c *Config) ReplyDelay() time.Duration {
	return time.Duration(c.Chat.ReplyDelayMS) * time.Millisecond
}

func (c *Config) ChatIdleTTL() time.Duration {
	return time.Duration(c.Chat.IdleTTLMin) * time.Minute
}

func (c *Config) BoardIdleTTL() time.Duration {
	return time.Duration(c.Requests.IdleTTLMin) * time.Minute
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch c.Database.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(c.Database.Path), gcfg)
	case "mysql":
	default:
		return nil, fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
