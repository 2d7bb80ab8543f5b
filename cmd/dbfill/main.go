// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

// Command dbfill loads seed CSV data into the YamDB database.
//
// # Usage
//
//	dbfill --all
//	dbfill users category genre
//
// Tables are imported in the order given on the command line; --all uses the
// built-in dependency-safe order. The whole invocation runs in one
// transaction, so a failed run leaves the database untouched.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/polyakovda/yamdb/internal/importer"
	"github.com/polyakovda/yamdb/internal/platform/config"
	"github.com/polyakovda/yamdb/internal/platform/migration"
	pgstore "github.com/polyakovda/yamdb/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "yamdb-dbfill"))
	slog.SetDefault(log)

	var (
		importAll bool
		dataDir   string
	)

	root := &cobra.Command{
		Use:   "dbfill [tables...]",
		Short: "Import seed CSV files into the YamDB database",
		Long: "Imports CSV seed files inside a single transaction.\n" +
			"Known tables: " + strings.Join(importer.DefaultOrder(), ", ") + ".",
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if importAll && len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with table names")
			}
			if !importAll && len(args) == 0 {
				return fmt.Errorf("name at least one table or pass --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), log, dataDir, importAll, args)
		},
	}

	root.Flags().BoolVar(&importAll, "all", false, "import every table in dependency-safe order")
	root.Flags().StringVar(&dataDir, "data-dir", "", "directory with the CSV files (defaults to CSV_DATA_PATH)")

	if err := root.Execute(); err != nil {
		log.Error("import_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run connects to the database and executes the requested import.
func run(parent context.Context, log *slog.Logger, dataDir string, importAll bool, tables []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if dataDir == "" {
		dataDir = cfg.CSVDataPath
	}

	ctx, cancel := context.WithTimeout(parent, 10*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	// The schema must exist before anything can be imported.
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return err
	}

	loader := importer.New(pool, dataDir, importer.DefaultTables(), log)

	start := time.Now()
	if importAll {
		err = loader.RunAll(ctx)
	} else {
		err = loader.Run(ctx, tables)
	}
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "import_finished",
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
