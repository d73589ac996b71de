package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

// ViewsConfig contains the table layout and composition settings loaded from YAML
type ViewsConfig struct {
	Table   TableLayout   `yaml:"table"`
	Display DisplayLayout `yaml:"display"`
	Compose ComposeLayout `yaml:"compose"`
}

// TableLayout enumerates columns per mode and the searchable fields
type TableLayout struct {
	Minimal    []string          `yaml:"minimal"`
	Full       []string          `yaml:"full"`
	Searchable []string          `yaml:"searchable"`
	Titles     map[string]string `yaml:"titles"`
}

// DisplayLayout contains cell rendering settings
type DisplayLayout struct {
	TimeLayout  string `yaml:"time_layout"`
	Placeholder string `yaml:"placeholder"`
}

// ComposeLayout contains invoice and message settings
type ComposeLayout struct {
	QREndpoint       string `yaml:"qr_endpoint"`
	QRSize           string `yaml:"qr_size"`
	WhatsAppBaseURL  string `yaml:"whatsapp_base_url"`
	GreetingTemplate string `yaml:"greeting_template"`
	InvoiceFooter    string `yaml:"invoice_footer"`
}

// LoadViewsConfig loads the views configuration from a YAML file
func LoadViewsConfig(configPath string) (*ViewsConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/views.yaml",
			"/etc/request-dashboard/views.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "views.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read views config %s: %w", configPath, err)
		}
		// Return default config if no file found
		return DefaultViewsConfig(), nil
	}

	var config ViewsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *ViewsConfig) fillDefaults() {
	defaults := DefaultViewsConfig()

	if len(c.Table.Minimal) == 0 {
		c.Table.Minimal = defaults.Table.Minimal
	}
	if len(c.Table.Full) == 0 {
		c.Table.Full = defaults.Table.Full
	}
	if len(c.Table.Searchable) == 0 {
		c.Table.Searchable = defaults.Table.Searchable
	}

	if c.Display.TimeLayout == "" {
		c.Display.TimeLayout = defaults.Display.TimeLayout
	}
	if c.Display.Placeholder == "" {
		c.Display.Placeholder = defaults.Display.Placeholder
	}

	if c.Compose.QREndpoint == "" {
		c.Compose.QREndpoint = defaults.Compose.QREndpoint
	}
	if c.Compose.QRSize == "" {
		c.Compose.QRSize = defaults.Compose.QRSize
	}
	if c.Compose.WhatsAppBaseURL == "" {
		c.Compose.WhatsAppBaseURL = defaults.Compose.WhatsAppBaseURL
	}
	if c.Compose.GreetingTemplate == "" {
		c.Compose.GreetingTemplate = defaults.Compose.GreetingTemplate
	}
	if c.Compose.InvoiceFooter == "" {
		c.Compose.InvoiceFooter = defaults.Compose.InvoiceFooter
	}
}

// ToTableConfig resolves column names against the column catalog
func (c *ViewsConfig) ToTableConfig() (usecase.TableConfig, error) {
	titles := make(map[domain.ColumnKey]string, len(c.Table.Titles))
	for k, v := range c.Table.Titles {
		titles[domain.ColumnKey(k)] = v
	}

	minimal, err := domain.ResolveColumns(columnKeys(c.Table.Minimal), titles)
	if err != nil {
		return usecase.TableConfig{}, &ConfigError{Field: "table.minimal", Message: err.Error()}
	}
	full, err := domain.ResolveColumns(columnKeys(c.Table.Full), titles)
	if err != nil {
		return usecase.TableConfig{}, &ConfigError{Field: "table.full", Message: err.Error()}
	}
	searchable, err := domain.ResolveColumns(columnKeys(c.Table.Searchable), nil)
	if err != nil {
		return usecase.TableConfig{}, &ConfigError{Field: "table.searchable", Message: err.Error()}
	}
	for _, col := range searchable {
		if _, ok := col.Text(&domain.Row{}); !ok {
			return usecase.TableConfig{}, &ConfigError{Field: "table.searchable", Message: fmt.Sprintf("column %q is not a text column", col.Key)}
		}
	}

	return usecase.TableConfig{Minimal: minimal, Full: full, Searchable: searchable}, nil
}

// ToComposeConfig converts to composer configuration
func (c *ViewsConfig) ToComposeConfig() usecase.ComposeConfig {
	return usecase.ComposeConfig{
		QREndpoint:       c.Compose.QREndpoint,
		QRSize:           c.Compose.QRSize,
		WhatsAppBaseURL:  c.Compose.WhatsAppBaseURL,
		GreetingTemplate: c.Compose.GreetingTemplate,
		InvoiceFooter:    c.Compose.InvoiceFooter,
	}
}

func columnKeys(names []string) []domain.ColumnKey {
	keys := make([]domain.ColumnKey, 0, len(names))
	for _, n := range names {
		keys = append(keys, domain.ColumnKey(n))
	}
	return keys
}

func keyNames(cols []domain.Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, string(c.Key))
	}
	return names
}

// DefaultViewsConfig returns the default views configuration
func DefaultViewsConfig() *ViewsConfig {
	table := usecase.DefaultTableConfig()
	compose := usecase.DefaultComposeConfig
	return &ViewsConfig{
		Table: TableLayout{
			Minimal:    keyNames(table.Minimal),
			Full:       keyNames(table.Full),
			Searchable: keyNames(table.Searchable),
		},
		Display: DisplayLayout{
			TimeLayout:  usecase.DefaultTimeLayout,
			Placeholder: domain.Placeholder,
		},
		Compose: ComposeLayout{
			QREndpoint:       compose.QREndpoint,
			QRSize:           compose.QRSize,
			WhatsAppBaseURL:  compose.WhatsAppBaseURL,
			GreetingTemplate: compose.GreetingTemplate,
			InvoiceFooter:    compose.InvoiceFooter,
		},
	}
}
