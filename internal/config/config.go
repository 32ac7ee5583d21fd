package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	OpenWeatherAPIKey string `yaml:"openweatherApiKey"`
	WeatherAPIKey     string `yaml:"weatherapiApiKey"`
	GeocoderAPIKey    string `yaml:"geocoderApiKey"`

	// Local cache and preferences database.
	DBDriver    string `yaml:"dbDriver"`
	DatabaseURL string `yaml:"databaseUrl"`

	// RefreshInterval controls how often the background job refreshes the saved location.
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	HTTPTimeout     time.Duration `yaml:"httpTimeout"`

	Port string `yaml:"port"`
}

func defaults() *AppConfig {
	return &AppConfig{
		DBDriver:        "sqlite3",
		DatabaseURL:     "file:instant-weather.db?cache=shared",
		RefreshInterval: 6 * time.Hour,
		HTTPTimeout:     10 * time.Second,
		Port:            "8080",
	}
}

// Load reads configuration from an optional YAML file, then from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.WeatherAPIKey = getenvDefault("WEATHERAPI_API_KEY", cfg.WeatherAPIKey)
	cfg.GeocoderAPIKey = getenvDefault("GEOCODER_API_KEY", cfg.GeocoderAPIKey)
	cfg.DBDriver = getenvDefault("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = getenvDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.Port = getenvDefault("PORT", cfg.Port)

	interval, err := getenvDuration("REFRESH_INTERVAL", cfg.RefreshInterval)
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = interval

	timeout, err := getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg.
func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
