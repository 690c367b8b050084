package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Rate provider kinds.
const (
	RateProviderHTTP   = "http"
	RateProviderStatic = "static"
)

// Rate store kinds.
const (
	RateStorePostgres = "postgres"
	RateStoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	LogLevel      string
	LogFormat     string

	// Exchange rates
	RateProvider           string
	RateProviderBaseURL    string
	RateProviderAPIKey     string
	RateProviderTimeout    time.Duration
	RateCacheTTL           time.Duration
	RateStore              string
	StaticRates            map[string]string
	DefaultDisplayCurrency string
	UnavailableRatePolicy  string

	// HTTP surface
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("RATE_PROVIDER", RateProviderHTTP)
	viper.SetDefault("RATE_PROVIDER_BASE_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("RATE_PROVIDER_API_KEY", "")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "5s")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("RATE_STORE", RateStorePostgres)
	viper.SetDefault("STATIC_RATES", "")
	viper.SetDefault("DEFAULT_DISPLAY_CURRENCY", "USD")
	viper.SetDefault("UNAVAILABLE_RATE_POLICY", "native")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.RateStore = strings.ToLower(viper.GetString("RATE_STORE"))
	if cfg.DatabaseURL == "" && cfg.RateStore == RateStorePostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.LogFormat = viper.GetString("LOG_FORMAT")

	cfg.RateProvider = strings.ToLower(viper.GetString("RATE_PROVIDER"))
	cfg.RateProviderBaseURL = strings.TrimRight(viper.GetString("RATE_PROVIDER_BASE_URL"), "/")
	cfg.RateProviderAPIKey = viper.GetString("RATE_PROVIDER_API_KEY")
	if cfg.RateProvider == RateProviderHTTP && cfg.RateProviderAPIKey == "" {
		log.Println("Warning: RATE_PROVIDER_API_KEY not set. Live exchange rates will not be available.")
	}
	cfg.RateProviderTimeout = durationOrDefault("RATE_PROVIDER_TIMEOUT", 5*time.Second)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", time.Hour)
	cfg.StaticRates = parseStaticRates(viper.GetString("STATIC_RATES"))

	cfg.DefaultDisplayCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_DISPLAY_CURRENCY")))
	cfg.UnavailableRatePolicy = strings.ToLower(viper.GetString("UNAVAILABLE_RATE_POLICY"))

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseStaticRates reads "USD/EUR=0.92,EUR/USD=1.08" into a pair to rate map.
// Malformed entries are skipped with a warning.
func parseStaticRates(raw string) map[string]string {
	rates := make(map[string]string)
	for _, entry := range splitList(raw) {
		pair, rate, ok := strings.Cut(entry, "=")
		if !ok || !strings.Contains(pair, "/") {
			log.Printf("Warning: Ignoring malformed STATIC_RATES entry '%s'.\n", entry)
			continue
		}
		rates[strings.ToUpper(strings.TrimSpace(pair))] = strings.TrimSpace(rate)
	}
	return rates
}
