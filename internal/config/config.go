package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server
	Backend   Backend
	Session   Session
	Redis     Redis
	OAuth     OAuth
	LLM       LLM
	Log       Log
	RateLimit RateLimit
	DevAPI    DevAPI
}

type Server struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// Mode maps GinMode onto one of gin's modes ("debug", "test", "release"). Anything
// unrecognized runs in release mode.
func (s Server) Mode() string {
	switch strings.ToLower(strings.TrimSpace(s.GinMode)) {
	case "debug":
		return "debug"
	case "test":
		return "test"
	default:
		return "release"
	}
}

// Backend describes the external resource API.
type Backend struct {
	// BaseURL is empty when API_BASE_URL is unset; calls then fail at request time.
	BaseURL     string
	Timeout     time.Duration
	AtomicViews bool
}

type Session struct {
	Secret     string
	CookieName string
	JWTSecret  string
	JWTExpiry  time.Duration
}

// Redis is optional. Addr empty disables cache revalidation and the shared OAuth state store.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

func (r Redis) Enabled() bool { return r.Addr != "" }

type OAuth struct {
	RedirectBase       string
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	// SuccessRedirect is where the browser lands after a completed OAuth sign-in.
	SuccessRedirect string
}

type LLM struct {
	BaseURL string
	Token   string
	Model   string
	Timeout time.Duration
}

type Log struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type RateLimit struct {
	AuthPerMinute int
	MaxClients    int
}

// DevAPI configures the local stand-in backend. DatabaseURL selects postgres;
// otherwise SQLitePath is used.
type DevAPI struct {
	Port        string
	DatabaseURL string
	SQLitePath  string
}

// Load reads .env (if any) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	return &Config{
		Server: Server{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Backend: Backend{
			BaseURL:     strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
			Timeout:     getEnvAsDuration("BACKEND_TIMEOUT", 5*time.Second),
			AtomicViews: getEnvAsBool("BACKEND_ATOMIC_VIEWS", true),
		},
		Session: Session{
			Secret:     getEnv("SESSION_SECRET", "secret_key_change_me"),
			CookieName: getEnv("SESSION_COOKIE", "devflow_session"),
			JWTSecret:  getEnv("JWT_SECRET", ""),
			JWTExpiry:  getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OAuth: OAuth{
			RedirectBase:       strings.TrimRight(getEnv("OAUTH_REDIRECT_BASE", "http://localhost:8080"), "/"),
			GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			SuccessRedirect:    getEnv("OAUTH_SUCCESS_REDIRECT", "/"),
		},
		LLM: LLM{
			BaseURL: strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			Token:   getEnv("LLM_TOKEN", ""),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Log: Log{
			Level:      getEnv("LOG_LEVEL", "info"),
			Path:       getEnv("LOG_PATH", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnvAsBool("LOG_COMPRESS", false),
		},
		RateLimit: RateLimit{
			AuthPerMinute: getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
			MaxClients:    getEnvAsInt("RATE_LIMIT_MAX_CLIENTS", 10000),
		},
		DevAPI: DevAPI{
			Port:        getEnv("DEVAPI_PORT", "8000"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "devflow.db"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("5s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
