package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderdesk/request-dashboard/internal/data"
)

// seedCmd loads documents into the local store
var seedCmd = &cobra.Command{
	Use:   "seed [file.json]",
	Short: "Load a JSON array of request documents into the local SQLite store",
	Long: `Reads a JSON array of documents, each with an "id" and the request fields,
and writes them into REQUESTS_COLLECTION of the store at DASHBOARD_DB_PATH.
Existing documents with the same id are replaced.

Example:
  dashboard seed testdata/requests.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	records, err := data.ParseDocuments(raw)
	if err != nil {
		return err
	}

	store, err := data.NewDocumentRepo(cfg.Source.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	for _, rec := range records {
		if err := store.Put(ctx, cfg.Source.Collection, rec); err != nil {
			return err
		}
	}

	logger.Info("documents seeded",
		zap.Int("count", len(records)),
		zap.String("collection", cfg.Source.Collection),
		zap.String("path", cfg.Source.DBPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d documents into %s\n", len(records), cfg.Source.DBPath)
	return nil
}
