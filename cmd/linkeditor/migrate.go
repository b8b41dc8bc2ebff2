package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/config"
	"github.com/joestump/linkeditor/internal/db"
	"github.com/joestump/linkeditor/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServer()
			if err != nil {
				return err
			}
			defer log.Sync()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			v, err := db.Version(database, cfg.DB.Driver)
			if err != nil {
				return err
			}
			log.Infow("migrations complete", "version", v)
			return nil
		},
	}
}

// loadServer reads the server configuration and builds its logger.
func loadServer() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openDB connects to the configured database and brings its schema up to date.
func openDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
