package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API
	VerifyToken     string
	AccessToken     string
	PhoneNumberID   string
	AppSecret       string
	GraphAPIBase    string
	GraphAPIVersion string
	SendTimeout     time.Duration

	// Session storage
	SessionStore   string
	SessionIdleTTL time.Duration
	SweepInterval  time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisTLS       bool

	Links Links
}

// Links are the URLs embedded in menu replies.
type Links struct {
	Website               string
	ContactPage           string
	HelpCenter            string
	OnDemandBrochure      string
	WeightProgramBrochure string
	PaymentTutorial       string
	DevicesHelp           string
	MyFitnessPalSync      string
	AppDemoVideo          string
	ReportIssue           string
}

// LoadDotEnv loads a .env file into the environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		AccessToken:     getEnv("ACCESS_TOKEN", ""),
		PhoneNumberID:   getEnv("PHONE_NUMBER_ID", ""),
		AppSecret:       getEnv("APP_SECRET", ""),
		GraphAPIBase:    getEnv("GRAPH_API_BASE", "https://graph.facebook.com"),
		GraphAPIVersion: getEnv("GRAPH_API_VERSION", "v17.0"),
		SendTimeout:     getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),

		SessionStore:   strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionIdleTTL: getEnvAsDuration("SESSION_IDLE_TTL", 0),
		SweepInterval:  getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		Links: Links{
			Website:               getEnv("WEBSITE_URL", "[WEBSITE_URL]"),
			ContactPage:           getEnv("CONTACT_PAGE_URL", "[CONTACT_PAGE_URL]"),
			HelpCenter:            getEnv("HELP_CENTER_URL", "[HELP_CENTER_URL]"),
			OnDemandBrochure:      getEnv("ON_DEMAND_BROCHURE_URL", "[ON_DEMAND_BROCHURE_URL]"),
			WeightProgramBrochure: getEnv("WEIGHT_PROGRAM_BROCHURE_URL", "[WEIGHT_PROGRAM_BROCHURE_URL]"),
			PaymentTutorial:       getEnv("PAYMENT_TUTORIAL_URL", "[PAYMENT_TUTORIAL_URL]"),
			DevicesHelp:           getEnv("DEVICES_HELP_URL", "[DEVICES_HELP_URL]"),
			MyFitnessPalSync:      getEnv("MYFITNESSPAL_SYNC_URL", "[MYFITNESSPAL_SYNC_URL]"),
			AppDemoVideo:          getEnv("APP_DEMO_VIDEO_URL", "[APP_DEMO_VIDEO_URL]"),
			ReportIssue:           getEnv("REPORT_ISSUE_URL", "[REPORT_ISSUE_URL]"),
		},
	}
}

// Validate reports every required WhatsApp setting that is missing and
// any setting with an unsupported value.
func (c *Config) Validate() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"VERIFY_TOKEN", c.VerifyToken},
		{"ACCESS_TOKEN", c.AccessToken},
		{"PHONE_NUMBER_ID", c.PhoneNumberID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("config: missing %s", r.name))
		}
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore))
	}
	if c.SessionIdleTTL < 0 {
		errs = append(errs, errors.New("config: SESSION_IDLE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
