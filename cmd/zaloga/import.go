package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/store"
)

// runImport copies the JSON collections of a data directory into the SQLite
// database, replacing whatever the database held.
func runImport(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	if from == "" {
		from = cfg.DataDir
	}

	result, err := importCollections(cmd, cfg, from)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s:\n", from, cfg.DB)
	fmt.Fprintf(cmd.OutOrStdout(), "  users:      %d\n", result.Users)
	fmt.Fprintf(cmd.OutOrStdout(), "  items:      %d\n", result.Items)
	fmt.Fprintf(cmd.OutOrStdout(), "  activities: %d\n", result.Activities)
	fmt.Fprintf(cmd.OutOrStdout(), "  settings:   %d\n", result.Settings)
	for _, c := range result.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: not present, kept existing\n", c)
	}
	return nil
}

func importCollections(cmd *cobra.Command, cfg *config.Config, from string) (*store.CopyResult, error) {
	info, err := os.Stat(from)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", from)
	}

	src := store.New(store.NewFileBackend(from))

	dstCfg := *cfg
	dstCfg.Backend = config.BackendSQLite
	dst, closeDst, err := openStore(&dstCfg)
	if err != nil {
		return nil, err
	}
	defer closeDst()

	result, err := store.Copy(cmd.Context(), dst, src)
	if err != nil {
		return nil, err
	}

	slog.Info("import complete", "from", from, "db", cfg.DB,
		"users", result.Users, "items", result.Items, "activities", result.Activities)
	return result, nil
}
