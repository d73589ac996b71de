package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/biz"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
	"github.com/orderdesk/request-dashboard/internal/conf"
	"github.com/orderdesk/request-dashboard/internal/data"
	"github.com/orderdesk/request-dashboard/internal/logging"
)

const version = "v1.0.0"

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Order request dashboard",
	Long: `Admin dashboard for customer order requests.

Requests are read once per view session from Firestore (when FIRESTORE_PROJECT_ID
is set) or from a local SQLite document store, then searched, sorted and
formatted in memory. Each row links to a printable invoice and a prefilled
WhatsApp message.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		var err error
		logger, err = logging.New(verbose || os.Getenv("DEBUG") == "true")
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired layers shared by serve and mcp
type app struct {
	cfg   *conf.Config
	repos *data.Repositories
	uc    *biz.Usecases
}

// loadConfig loads and validates configuration
func loadConfig() (*conf.Config, error) {
	cfg, err := conf.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newApp wires repositories and usecases from the environment
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Validate has checked both
	loc, _ := cfg.Display.Location()
	tag, _ := cfg.Display.SortTag()
	tableCfg, err := cfg.Views.ToTableConfig()
	if err != nil {
		return nil, err
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(ctx,
		data.SourceOptions{
			FirestoreProjectID: cfg.Source.FirestoreProjectID,
			FirestoreCredsFile: cfg.Source.FirestoreCredsFile,
			DBPath:             cfg.Source.DBPath,
		},
		cfg.Feishu,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	if cfg.Source.UseFirestore() {
		logger.Info("request source: firestore",
			zap.String("project", cfg.Source.FirestoreProjectID),
			zap.String("collection", cfg.Source.Collection))
	} else {
		logger.Info("request source: local store",
			zap.String("path", cfg.Source.DBPath),
			zap.String("collection", cfg.Source.Collection))
	}
	if repos.Notify != nil {
		logger.Info("status notifications enabled", zap.String("chat", cfg.Feishu.NotifyChatID))
	}

	// Initialize usecase layer
	formatter := usecase.NewFormatter(loc, cfg.Views.Display.TimeLayout, cfg.Views.Display.Placeholder)
	return &app{
		cfg:   cfg,
		repos: repos,
		uc: &biz.Usecases{
			Session: usecase.NewSessionUsecase(repos.Request, repos.Notify, cfg.ToSessionOptions(), logger.Named("session")),
			Table:   usecase.NewTableUsecase(tableCfg, usecase.NewSorter(tag), formatter),
			Compose: usecase.NewComposer(cfg.Views.ToComposeConfig(), formatter),
		},
	}, nil
}

func (a *app) Close() {
	if err := a.repos.Close(); err != nil {
		logger.Warn("failed to close request source", zap.Error(err))
	}
}
