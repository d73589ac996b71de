package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "REQUESTS_COLLECTION", "FIRESTORE_PROJECT_ID", "FETCH_TIMEOUT_SECONDS",
		"SESSION_IDLE_MINUTES", "SESSION_RESET_HOUR", "SORT_LANGUAGE", "DISPLAY_TIMEZONE",
		"FEISHU_APP_ID", "FEISHU_APP_SECRET", "FEISHU_NOTIFY_CHAT_ID", "DEBUG",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("VIEWS_CONFIG_PATH", filepath.Join("..", "..", "configs", "views.yaml"))
	t.Setenv("DASHBOARD_DB_PATH", filepath.Join(t.TempDir(), "requests.db"))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "user_request", cfg.Source.Collection)
	assert.False(t, cfg.Source.UseFirestore())
	assert.Equal(t, 15, cfg.Source.FetchTimeoutSeconds)
	assert.Equal(t, 60, cfg.Session.IdleMinutes)
	assert.Equal(t, -1, cfg.Session.ResetHour)
	assert.False(t, cfg.Feishu.NotifyEnabled())
	require.NoError(t, cfg.Validate())

	opts := cfg.ToSessionOptions()
	assert.Equal(t, 15*time.Second, opts.FetchTimeout)
	assert.Equal(t, time.Hour, opts.Session.IdleTimeout)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("VIEWS_CONFIG_PATH", filepath.Join("..", "..", "configs", "views.yaml"))
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("FIRESTORE_PROJECT_ID", "orders-prod")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "0")
	t.Setenv("SESSION_RESET_HOUR", "4")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Berlin")
	t.Setenv("FEISHU_APP_ID", "cli_x")
	t.Setenv("FEISHU_APP_SECRET", "secret")
	t.Setenv("FEISHU_NOTIFY_CHAT_ID", "oc_ops")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.True(t, cfg.Source.UseFirestore())
	assert.Equal(t, time.Duration(0), cfg.ToSessionOptions().FetchTimeout)
	assert.Equal(t, 4, cfg.Session.ResetHour)
	assert.True(t, cfg.Feishu.NotifyEnabled())

	loc, err := cfg.Display.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		return &Config{
			Source:  SourceConfig{Collection: "user_request", DBPath: "x.db"},
			Session: SessionConfig{ResetHour: -1},
			Display: DisplayConfig{SortLanguage: "en"},
			Views:   DefaultViewsConfig(),
		}
	}
	require.NoError(t, base().Validate())

	t.Run("bad timezone", func(t *testing.T) {
		cfg := base()
		cfg.Display.Timezone = "Mars/Olympus"
		assertConfigError(t, cfg.Validate(), "DISPLAY_TIMEZONE")
	})

	t.Run("bad reset hour", func(t *testing.T) {
		cfg := base()
		cfg.Session.ResetHour = 24
		assertConfigError(t, cfg.Validate(), "SESSION_RESET_HOUR")
	})

	t.Run("notify chat without credentials", func(t *testing.T) {
		cfg := base()
		cfg.Feishu.NotifyChatID = "oc_ops"
		assertConfigError(t, cfg.Validate(), "FEISHU_APP_ID/FEISHU_APP_SECRET")
	})

	t.Run("unknown column", func(t *testing.T) {
		cfg := base()
		cfg.Views.Table.Minimal = []string{"Customer-Name", "Shoe-Size"}
		assertConfigError(t, cfg.Validate(), "table.minimal")
	})

	t.Run("non text searchable column", func(t *testing.T) {
		cfg := base()
		cfg.Views.Table.Searchable = []string{"Product-Links"}
		assertConfigError(t, cfg.Validate(), "table.searchable")
	})
}

func assertConfigError(t *testing.T, err error, field string) {
	t.Helper()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
	assert.Equal(t, field, cfgErr.Field)
}

func TestLoadViewsConfig_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  titles:\n    Courier: Carrier\n"), 0644))

	cfg, err := LoadViewsConfig(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Table.Minimal, 9)
	assert.Len(t, cfg.Table.Full, 12)
	assert.Equal(t, domain.Placeholder, cfg.Display.Placeholder)
	assert.Contains(t, cfg.Compose.GreetingTemplate, "{{order_date}}")

	table, err := cfg.ToTableConfig()
	require.NoError(t, err)
	for _, c := range table.Minimal {
		if c.Key == domain.ColCourier {
			assert.Equal(t, "Carrier", c.Title)
		}
	}
}

func TestLoadViewsConfig_MissingExplicitPath(t *testing.T) {
	_, err := LoadViewsConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadViewsConfig_RepoFile(t *testing.T) {
	cfg, err := LoadViewsConfig(filepath.Join("..", "..", "configs", "views.yaml"))
	require.NoError(t, err)

	table, err := cfg.ToTableConfig()
	require.NoError(t, err)
	assert.Len(t, table.Minimal, 9)
	assert.Len(t, table.Searchable, 5)
	assert.Equal(t, DefaultViewsConfig().Compose.GreetingTemplate, cfg.Compose.GreetingTemplate)
}
