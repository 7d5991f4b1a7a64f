package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ApifyToken  string
	DatabaseURL string

	ActorID   string
	StartURL  string
	MaxItems  int
	SortOrder string
	UseProxy  bool

	MaxRetries     int
	PollIntervalMs int

	CSVOutputPath string
	Debug         bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ApifyToken:  os.Getenv("APIFY_API_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		ActorID:   getEnv("APIFY_ACTOR_ID", "aitorsm~centris-scraper"),
		StartURL:  getEnv("START_URL", "https://www.centris.ca/en/properties~for-rent~montreal"),
		MaxItems:  getEnvInt("MAX_ITEMS", 2),
		SortOrder: getEnv("SORT_ORDER", "date_desc"),
		UseProxy:  getEnvBool("USE_APIFY_PROXY", true),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		PollIntervalMs: getEnvInt("POLL_INTERVAL_MS", 3000),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_listings.csv"),
		Debug:         getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
