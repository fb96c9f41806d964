package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ErrConfigRead marks an existing config file that could not be read or
// parsed. There is no auto-repair; the caller treats this as fatal.
var ErrConfigRead = errors.New("config read error")

// Config is the immutable service configuration, loaded once at startup
// and threaded through the modules by the registry.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	App         AppConfig         `mapstructure:"app"`
	Atlantic    AtlanticConfig    `mapstructure:"atlantic"`
	Pterodactyl PterodactylConfig `mapstructure:"pterodactyl"`
	Store       StoreConfig       `mapstructure:"store"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Packages    []Package         `mapstructure:"packages"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type AppConfig struct {
	Debug bool `mapstructure:"debug"`
}

// AtlanticConfig holds the Atlantic H2H payment gateway settings.
type AtlanticConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	CallbackURL    string `mapstructure:"callback_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// PterodactylConfig holds the panel application API settings.
type PterodactylConfig struct {
	PanelURL       string `mapstructure:"panel_url"`
	APIKey         string `mapstructure:"api_key"`
	LocationID     int    `mapstructure:"location_id"`
	EggID          int    `mapstructure:"egg_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StoreConfig selects the order store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory, postgres
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Package is a static catalog entry. RAM is in MB, price in IDR.
type Package struct {
	ID    int    `mapstructure:"id" json:"id"`
	Name  string `mapstructure:"name" json:"name"`
	RAM   int    `mapstructure:"ram" json:"ram"`
	Price int    `mapstructure:"price" json:"price"`
}

func defaultPackages() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": 1, "name": "1GB Starter", "ram": 1024, "price": 15000},
		{"id": 2, "name": "2GB Basic", "ram": 2048, "price": 25000},
		{"id": 3, "name": "4GB Pro", "ram": 4096, "price": 45000},
		{"id": 4, "name": "8GB Advanced", "ram": 8192, "price": 85000},
		{"id": 5, "name": "16GB Premium", "ram": 16384, "price": 165000},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("app.debug", false)

	// Credentials come from the environment on first run and are
	// materialized into the config file alongside the defaults.
	v.SetDefault("atlantic.base_url", "https://atlantich2h.com")
	v.SetDefault("atlantic.api_key", os.Getenv("ATLANTIC_API_KEY"))
	v.SetDefault("atlantic.callback_url", "https://yourdomain.com/api/webhook")
	v.SetDefault("atlantic.timeout_seconds", 15)

	v.SetDefault("pterodactyl.panel_url", "https://panel.yourdomain.com")
	v.SetDefault("pterodactyl.api_key", os.Getenv("PTERODACTYL_API_KEY"))
	v.SetDefault("pterodactyl.location_id", 1)
	v.SetDefault("pterodactyl.egg_id", 15)
	v.SetDefault("pterodactyl.timeout_seconds", 30)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("redis.db", 0)

	v.SetDefault("packages", defaultPackages())
}

// Load reads config.yaml from ./configs or the working directory. When no
// file exists yet, the defaults (with credentials pulled from the
// environment) are written out so the deployment has an editable file; an
// existing file that cannot be read or parsed is an ErrConfigRead.
func Load() (*Config, error) {
	return load(".")
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir + "/configs")
	v.AddConfigPath(dir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
		}
		// First run: materialize the defaults.
		if werr := v.SafeWriteConfigAs(dir + "/config.yaml"); werr != nil {
			return nil, fmt.Errorf("write default config: %w", werr)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}

	// Env overrides for the credentials, in case the file was created
	// before the keys were provisioned.
	if key := os.Getenv("ATLANTIC_API_KEY"); key != "" {
		cfg.Atlantic.APIKey = key
	}
	if key := os.Getenv("PTERODACTYL_API_KEY"); key != "" {
		cfg.Pterodactyl.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the parts of the configuration the order flow cannot
// run without.
func (c *Config) Validate() error {
	if len(c.Packages) == 0 {
		return errors.New("package catalog is empty")
	}
	seen := make(map[int]bool, len(c.Packages))
	for _, p := range c.Packages {
		if seen[p.ID] {
			return fmt.Errorf("duplicate package id %d", p.ID)
		}
		seen[p.ID] = true
		if p.RAM <= 0 || p.Price <= 0 {
			return fmt.Errorf("package %d has invalid ram/price", p.ID)
		}
	}

	if c.Pterodactyl.PanelURL == "" {
		return errors.New("pterodactyl panel_url is required")
	}
	if c.Atlantic.BaseURL == "" {
		return errors.New("atlantic base_url is required")
	}

	switch c.Store.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	return nil
}

// FindPackage resolves a catalog entry by id.
func (c *Config) FindPackage(id int) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
