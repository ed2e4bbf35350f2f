package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgraph/config"
	"github.com/d60-Lab/socialgraph/internal/schemadoc"
	"github.com/d60-Lab/socialgraph/pkg/database"
	"github.com/d60-Lab/socialgraph/pkg/logger"
)

var errSchemaMismatch = errors.New("database does not match the declared schema")

type options struct {
	configPath string
	driver     string
	dsn        string
	format     string
	verify     bool
	migrate    bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "schemadump",
		Short: "Print or verify the social graph schema",
		Long: `schemadump prints the tables, foreign keys and indexes declared by the models.
With --verify it checks that a live database carries all of them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./config/config.yaml)")
	cmd.Flags().StringVar(&opts.driver, "driver", "", "Database driver: postgres or sqlite (overrides config)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Database DSN (overrides config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", schemadoc.FormatText, "Output format: text or markdown")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Check the database has every table, foreign key and index")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Create missing tables before verifying")
	return cmd
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.driver != "" {
		cfg.Database.Driver = strings.ToLower(opts.driver)
	}
	if opts.dsn != "" {
		cfg.Database.DSN = opts.dsn
	}
	cfg.Database.AutoMigrate = opts.migrate
	return cfg, nil
}

func run(cmd *cobra.Command, opts options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close database: %v\n", err)
		}
	}()

	tables, err := schemadoc.Describe(db)
	if err != nil {
		return fmt.Errorf("failed to describe schema: %w", err)
	}

	out := cmd.OutOrStdout()
	if !opts.verify {
		return schemadoc.Render(out, tables, opts.format)
	}

	missing, err := schemadoc.Verify(ctx, db, tables)
	if err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}
	if len(missing) == 0 {
		_, _ = fmt.Fprintf(out, "schema verified: %d tables\n", len(tables))
		return nil
	}
	for _, m := range missing {
		_, _ = fmt.Fprintf(out, "missing %s\n", m)
	}
	logger.Warn("schema verification failed", zap.Strings("missing", missing))
	return fmt.Errorf("%w: %d items missing", errSchemaMismatch, len(missing))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
