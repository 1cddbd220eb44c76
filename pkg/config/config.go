package config

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const defaultPath = "./configs/.env"

var (
	once     sync.Once
	instance *Config
)

// Config reads settings from the environment. The .env file only fills
// variables that aren't set already, so the real environment wins.
type Config struct {
}

// New loads ./configs/.env (or the file named by CONFIG_PATH) once. A
// missing default file is tolerated for container deployments that pass
// everything through the environment.
func New() *Config {
	once.Do(func() {
		path, explicit := os.LookupEnv("CONFIG_PATH")
		if !explicit {
			path = defaultPath
		}
		err := godotenv.Load(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
			slog.Warn("env file not found, using process environment", slog.String("path", path))
		default:
			log.Fatal("loading envs error: ", err)
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetInt(key string, fallback int) int {
	v, ok := c.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid int in config, using default", slog.String("key", key), slog.Int("default", fallback))
		return fallback
	}
	return n
}

// GetDuration accepts time.ParseDuration syntax ("30s", "1m").
func (c *Config) GetDuration(key string, fallback time.Duration) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in config, using default", slog.String("key", key), slog.Duration("default", fallback))
		return fallback
	}
	return d
}

func (c *Config) GetBool(key string, fallback bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool in config, using default", slog.String("key", key), slog.Bool("default", fallback))
		return fallback
	}
	return b
}

// GetStrings splits a comma separated value, dropping empty items.
func (c *Config) GetStrings(key string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return nil
	}
	var res []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

func (c *Config) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
