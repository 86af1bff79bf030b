package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Game rules
	InitialCash  float64
	Epsilon      float64 // flat threshold on relative close-to-close change
	ShareEpsilon float64 // shares at/below this count as no position
	LookbackMin  int     // bars of history required before the start index
	ForwardMin   int     // bars of future required after the start index

	// Data
	DataDir string

	// Infrastructure
	ListenAddr  string
	MetricsAddr string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using environment variables")
	}

	return &Config{
		InitialCash:  envFloat("INITIAL_CASH", 10000),
		Epsilon:      envFloat("FLAT_EPSILON", 0.0005),
		ShareEpsilon: envFloat("SHARE_EPSILON", 1e-4),
		LookbackMin:  envInt("LOOKBACK_MIN", 60),
		ForwardMin:   envInt("FORWARD_MIN", 30),

		DataDir: getEnv("DATA_DIR", "data"),

		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/arcade.db"),
		RedisAddr:   getEnv("REDIS_ADDR", ""), // empty disables the leaderboard
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
	}
}

// MinBars returns the minimum playable bar count per stock.
func (c *Config) MinBars() int {
	return c.LookbackMin + c.ForwardMin + 1
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
