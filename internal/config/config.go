package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig   `toml:"app"`
	Auth  AuthConfig  `toml:"auth"`
	MySQL MySQLConfig `toml:"mysql"`
	Redis RedisConfig `toml:"redis"`
}

type AppConfig struct {
	Name         string   `toml:"name"`
	Env          string   `toml:"env"`
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	GinMode      string   `toml:"gin_mode"`
	AllowOrigins []string `toml:"allow_origins"`
}

type AuthConfig struct {
	// JWTSecret has no default. The server refuses to start without an
	// explicitly configured secret.
	JWTSecret       string `toml:"jwt_secret"`
	JWTExpireMinute int    `toml:"jwt_expire_minute"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	ListingTTLSeconds int    `toml:"listing_ttl_seconds"`
}

func Load() (*Config, error) {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("auth.jwt_secret (or JWT_SECRET) must be configured")
	}
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "goforum",
			Env:          "dev",
			Host:         "0.0.0.0",
			Port:         8080,
			GinMode:      "debug",
			AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Auth: AuthConfig{
			JWTSecret:       "",
			JWTExpireMinute: 60,
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "goforum",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:              "127.0.0.1:6379",
			Password:          "",
			DB:                0,
			ListingTTLSeconds: 60,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	if origins := os.Getenv("APP_ALLOW_ORIGINS"); origins != "" {
		cfg.App.AllowOrigins = strings.Split(origins, ",")
	}

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireMinute = getEnvAsInt("JWT_EXPIRE_MINUTE", cfg.Auth.JWTExpireMinute)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ListingTTLSeconds = getEnvAsInt("REDIS_LISTING_TTL_SECONDS", cfg.Redis.ListingTTLSeconds)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
