// Package cmd provides the adminctl commands.
package cmd

import (
	"fmt"

	"github.com/safespace/backend/internal/infrastructure/config"
	"github.com/safespace/backend/internal/infrastructure/logger"
	"github.com/safespace/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Operate the SafeSpace backend",
	Long: `adminctl manages admin accounts and checks pricing configuration.

Configuration is read the same way as the server: config.toml in ., ./backend
or /app, overridden by SAFESPACE_* environment variables.

Examples:
  adminctl create-superadmin --email owner@example.com --name "Practice Owner" --password '...'
  adminctl list-admins --role superAdmin
  adminctl check-promos
  adminctl quote --package 550 --country GB --promo WELCOME10`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(createSuperAdminCmd)
	rootCmd.AddCommand(listAdminsCmd)
	rootCmd.AddCommand(checkPromosCmd)
	rootCmd.AddCommand(quoteCmd)
}

// env is what every command starts from
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) openDatabase() (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(e.log, logger.MapGormLogLevel(e.cfg.Log.Level))
	db, err := persistence.NewDatabase(&e.cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return db, nil
}
