package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-manager/internal/db"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// RootOptions holds global flags for all commands. Empty values fall back
// to the environment.
type RootOptions struct {
	DBDriver string
	DBUrl    string
	Format   string // "json" | "text"
	Verbose  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the maintenance CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "studioctl",
		Short: "studioctl - manutenção do estúdio",
		Long:  "Maintenance commands for the studio database: spreadsheet exchange, catalog seeding, backups and change notifications.",

		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBDriver, "driver", "", "database driver (sqlite|postgres), default DB_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.DBUrl, "db", "", "database url or sqlite file, default DATABASE_URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// env is what every command works with: the merged configuration, a
// logger on stderr and an open store.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	store *store.Store
}

func (e *env) Close() error {
	return e.store.Close()
}

func openEnv(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg := config.Load()
	if opts.DBDriver != "" {
		cfg.DBDriver = opts.DBDriver
	}
	if opts.DBUrl != "" {
		cfg.DBUrl = opts.DBUrl
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := logger.Warn
	if opts.Verbose {
		level = logger.Debug
	}
	log := logger.New(logger.Options{Level: level, Output: cmd.ErrOrStderr(), App: "studioctl"})

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, db, store.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, store: st}, nil
}

// report prints a command result as sorted key=value lines or as JSON.
func report(w io.Writer, format string, result map[string]any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, result[k]); err != nil {
			return err
		}
	}
	return nil
}
