package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Provider ProviderConfig `mapstructure:"provider"`
	Vision   VisionConfig   `mapstructure:"vision"`
	Poller   PollerConfig   `mapstructure:"poller"`
	Store    StoreConfig    `mapstructure:"store"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

// ProviderConfig configures the external screenshot rendering API.
type ProviderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AccessKey string `mapstructure:"access_key"`
	Format    string `mapstructure:"format"`
	Quality   int    `mapstructure:"quality"`
	FullPage  bool   `mapstructure:"full_page"`
}

// VisionConfig configures the vision model backends. Backends are tried
// in fixed priority order: OpenAI first, then Anthropic.
type VisionConfig struct {
	OpenAI    VisionBackendConfig `mapstructure:"openai"`
	Anthropic VisionBackendConfig `mapstructure:"anthropic"`
}

type VisionBackendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type PollerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// StoreConfig configures the file-backed record store used by the
// unauthenticated demo workflow.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	AdminRole  string        `mapstructure:"admin_role"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/brandshot.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "brandshot")
	v.SetDefault("database.name", "brandshot")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("provider.base_url", "https://api.screenshotone.com")
	v.SetDefault("provider.format", "webp")
	v.SetDefault("provider.quality", 80)
	v.SetDefault("provider.full_page", true)
	v.SetDefault("vision.openai.model", "gpt-4o-mini")
	v.SetDefault("vision.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("vision.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("vision.anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("poller.enabled", true)
	v.SetDefault("poller.interval", 3*time.Second)
	v.SetDefault("store.path", "./data/screenshots.json")
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "captures")
	v.SetDefault("auth.expiration", 24*time.Hour)
	v.SetDefault("auth.admin_role", "admin")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("provider.access_key", "SCREENSHOT_API_KEY")
	v.BindEnv("provider.base_url", "SCREENSHOT_API_BASE_URL")
	v.BindEnv("vision.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("vision.openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("vision.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
