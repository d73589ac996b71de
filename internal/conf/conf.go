package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

// Config represents application configuration
type Config struct {
	// HTTP configuration
	HTTP HTTPConfig

	// Data source configuration
	Source SourceConfig

	// Session configuration
	Session SessionConfig

	// Display configuration
	Display DisplayConfig

	// Feishu notification configuration (optional)
	Feishu FeishuConfig

	// Views configuration (loaded from YAML)
	Views *ViewsConfig
}

// HTTPConfig contains listener configuration
type HTTPConfig struct {
	Addr string
}

// SourceConfig contains document source configuration
type SourceConfig struct {
	Collection          string
	FirestoreProjectID  string
	FirestoreCredsFile  string
	DBPath              string // local SQLite document store, used when no Firestore project is set
	FetchTimeoutSeconds int
}

// SessionConfig contains session configuration
type SessionConfig struct {
	IdleMinutes int
	ResetHour   int
}

// DisplayConfig contains locale settings
type DisplayConfig struct {
	Timezone     string // IANA name, empty for the host's local zone
	SortLanguage string // BCP 47 tag used for collation
}

// FeishuConfig contains Feishu configuration
type FeishuConfig struct {
	AppID        string
	AppSecret    string
	NotifyChatID string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Local document store path
	dbPath := os.Getenv("DASHBOARD_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".request-dashboard", "requests.db")
	}

	collection := os.Getenv("REQUESTS_COLLECTION")
	if collection == "" {
		collection = "user_request"
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	sortLanguage := os.Getenv("SORT_LANGUAGE")
	if sortLanguage == "" {
		sortLanguage = "en"
	}

	views, err := LoadViewsConfig(os.Getenv("VIEWS_CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTP: HTTPConfig{
			Addr: addr,
		},
		Source: SourceConfig{
			Collection:          collection,
			FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
			FirestoreCredsFile:  os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
			DBPath:              dbPath,
			FetchTimeoutSeconds: envInt("FETCH_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			IdleMinutes: envInt("SESSION_IDLE_MINUTES", 60),
			ResetHour:   envInt("SESSION_RESET_HOUR", -1),
		},
		Display: DisplayConfig{
			Timezone:     os.Getenv("DISPLAY_TIMEZONE"),
			SortLanguage: sortLanguage,
		},
		Feishu: FeishuConfig{
			AppID:        os.Getenv("FEISHU_APP_ID"),
			AppSecret:    os.Getenv("FEISHU_APP_SECRET"),
			NotifyChatID: os.Getenv("FEISHU_NOTIFY_CHAT_ID"),
		},
		Views: views,
	}, nil
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// UseFirestore reports whether the hosted document database is configured
func (c *SourceConfig) UseFirestore() bool {
	return c.FirestoreProjectID != ""
}

// NotifyEnabled reports whether status notifications should be sent
func (c *FeishuConfig) NotifyEnabled() bool {
	return c.AppID != "" && c.AppSecret != "" && c.NotifyChatID != ""
}

// Location returns the display time zone
func (c *DisplayConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SortTag returns the collation language
func (c *DisplayConfig) SortTag() (language.Tag, error) {
	return language.Parse(c.SortLanguage)
}

// ToSessionOptions converts to session usecase options
func (c *Config) ToSessionOptions() usecase.SessionOptions {
	return usecase.SessionOptions{
		Collection:   c.Source.Collection,
		FetchTimeout: time.Duration(c.Source.FetchTimeoutSeconds) * time.Second,
		Session: domain.SessionConfig{
			IdleTimeout: time.Duration(c.Session.IdleMinutes) * time.Minute,
			ResetHour:   c.Session.ResetHour,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Source.Collection == "" {
		return &ConfigError{Field: "REQUESTS_COLLECTION", Message: "required"}
	}
	if !c.Source.UseFirestore() && c.Source.DBPath == "" {
		return &ConfigError{Field: "DASHBOARD_DB_PATH", Message: "required when FIRESTORE_PROJECT_ID is not set"}
	}
	if c.Source.FetchTimeoutSeconds < 0 {
		return &ConfigError{Field: "FETCH_TIMEOUT_SECONDS", Message: "must not be negative"}
	}
	if c.Session.ResetHour > 23 {
		return &ConfigError{Field: "SESSION_RESET_HOUR", Message: "must be between 0 and 23, or -1 to disable"}
	}
	if _, err := c.Display.Location(); err != nil {
		return &ConfigError{Field: "DISPLAY_TIMEZONE", Message: err.Error()}
	}
	if _, err := c.Display.SortTag(); err != nil {
		return &ConfigError{Field: "SORT_LANGUAGE", Message: err.Error()}
	}
	if c.Feishu.NotifyChatID != "" && (c.Feishu.AppID == "" || c.Feishu.AppSecret == "") {
		return &ConfigError{Field: "FEISHU_APP_ID/FEISHU_APP_SECRET", Message: "required when FEISHU_NOTIFY_CHAT_ID is set"}
	}
	if c.Views == nil {
		return &ConfigError{Field: "views", Message: "not loaded"}
	}
	if _, err := c.Views.ToTableConfig(); err != nil {
		return err
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
