package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Category is one stock category and the measurement fields recorded for it,
// in display order.
type Category struct {
	Name   string   `mapstructure:"name"`
	Fields []string `mapstructure:"fields"`
}

type Config struct {
	Server struct {
		Port                   int      `mapstructure:"port"`
		CorsAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods     []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders     []string `mapstructure:"cors_allowed_headers"`
		ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds"`
	} `mapstructure:"server"`

	Store struct {
		Driver string `mapstructure:"driver"` // memory, postgres or sqlite
	} `mapstructure:"store"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	SQLite struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"sqlite"`

	Redis struct {
		Enabled    bool   `mapstructure:"enabled"`
		Addr       string `mapstructure:"addr"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
		TTLSeconds int    `mapstructure:"ttl_seconds"`
	} `mapstructure:"redis"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Backup struct {
		Bucket    string `mapstructure:"bucket"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Prefix    string `mapstructure:"prefix"`
	} `mapstructure:"backup"`

	Organization struct {
		Name    string   `mapstructure:"name"`
		Phones  []string `mapstructure:"phones"`
		Emails  []string `mapstructure:"emails"`
		Address string   `mapstructure:"address"`
	} `mapstructure:"organization"`

	Inventory struct {
		LowStockThreshold int `mapstructure:"low_stock_threshold"`
	} `mapstructure:"inventory"`

	// Categories is a list rather than a map because viper lower-cases map keys
	// and category names are shown to users as entered.
	Categories []Category `mapstructure:"categories"`
}

// Load reads .env, configs/config.yaml (optional) and the environment.
func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configFile())

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("no config file found, using defaults")
	}

	cfg, err := unmarshal(v)
	if err != nil {
		log.Fatal().Err(err).Msg("config unmarshal failed")
	}
	applyEnvOverrides(cfg)
	return cfg
}

func configFile() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "configs/config.yaml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("server.shutdown_timeout_seconds", 15)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "tailor_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("sqlite.path", "tailor.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl_seconds", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("backup.region", "auto")
	v.SetDefault("backup.prefix", "snapshots")
	v.SetDefault("organization.name", "Fashion House Ltd.")
	v.SetDefault("organization.phones", []string{"+91 98765 43210"})
	v.SetDefault("organization.emails", []string{"info@fashionhouse.com"})
	v.SetDefault("organization.address", "123 Fashion Street, Textile Market")
	v.SetDefault("inventory.low_stock_threshold", 10)
	v.SetDefault("categories", defaultCategories())
}

func defaultCategories() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "Coat/Shafari", "fields": []string{"length", "chest", "waist", "hip", "shoulder", "sleeve", "neck", "cross_back", "cross_front"}},
		{"name": "Shirt", "fields": []string{"length", "chest", "waist", "hip", "shoulder", "sleeve", "neck", "k.f"}},
		{"name": "Pants", "fields": []string{"length", "waist", "hip", "thigh", "knee", "bottom"}},
		{"name": "Fabric", "fields": []string{"length", "width"}},
		{"name": "Accessories", "fields": []string{"size"}},
	}
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if bucket := os.Getenv("BACKUP_BUCKET"); bucket != "" {
		cfg.Backup.Bucket = bucket
	}
	if endpoint := os.Getenv("BACKUP_ENDPOINT"); endpoint != "" {
		cfg.Backup.Endpoint = endpoint
	}
	if key := os.Getenv("BACKUP_ACCESS_KEY"); key != "" {
		cfg.Backup.AccessKey = key
	}
	if secret := os.Getenv("BACKUP_SECRET_KEY"); secret != "" {
		cfg.Backup.SecretKey = secret
	}
}

// DSN is the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CategoryMap returns the configured categories keyed by name.
func (c *Config) CategoryMap() map[string][]string {
	out := make(map[string][]string, len(c.Categories))
	for _, cat := range c.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			continue
		}
		out[name] = append([]string(nil), cat.Fields...)
	}
	return out
}
