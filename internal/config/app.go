package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads variables from a .env file in the working directory, or from
// the given files. Variables already set in the environment win. A missing
// file is not an error.
func Load(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func Port() string {
	return lookupString("APP_PORT", "8080")
}

func Addr() string {
	return ":" + Port()
}

// Development reports whether DEVELOPMENT is set to anything but a false
// value.
func Development() bool {
	s, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	development, err := strconv.ParseBool(s)
	return err != nil || development
}

func lookupString(key, fallback string) string {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func lookupFloat(key string, fallback float64) (float64, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}
