package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment.
type Config struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	CORSOrigins    []string
	CheckoutLock   time.Duration
	SearchCacheTTL time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

var ErrMissingSecret = errors.New("JWT_SECRET must be set outside dev")

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           port(os.Getenv("PORT")),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "modesta"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getint("REDIS_DB", 0),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CORSOrigins:    split(getenv("CORS_ORIGINS", "*")),
		CheckoutLock:   getduration("CHECKOUT_LOCK_TTL", 10*time.Second),
		SearchCacheTTL: getduration("SEARCH_CACHE_TTL", 5*time.Minute),
		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 10),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = "dev_secret_key"
	}
	return cfg, nil
}

func port(p string) string {
	if p == "" {
		return ":8080"
	}
	if p[0] != ':' {
		return ":" + p
	}
	return p
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getfloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
