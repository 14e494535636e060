package app

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr            string
	DataDir         string
	SessionSecret   string
	SessionLifetime time.Duration

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func LoadConfig() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	addr := getenv("ADDR", ":8080")
	dataDir := getenv("DATA_DIR", "./data")
	secret := getenv("SESSION_SECRET", "dev-insecure-secret")
	lifeHours := getenv("SESSION_LIFETIME_HOURS", "24")
	dur, err := time.ParseDuration(lifeHours + "h")
	if err != nil {
		dur = 24 * time.Hour
	}
	return Config{
		Addr:            addr,
		DataDir:         dataDir,
		SessionSecret:   secret,
		SessionLifetime: dur,
		AdminEmail:      getenv("ADMIN_EMAIL", ""),
		AdminPassword:   getenv("ADMIN_PASSWORD", ""),
		AdminName:       getenv("ADMIN_NAME", "Admin"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// SetupLogger configures the global zerolog logger for console output.
func SetupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}
