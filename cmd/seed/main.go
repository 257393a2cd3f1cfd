package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salespipeline/internal/config"
	"salespipeline/internal/db"
	"salespipeline/internal/logging"
	"salespipeline/internal/repository"
	"salespipeline/internal/seed"
	"salespipeline/internal/validation"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		file  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and sales opportunities from a YAML fixture",
		Long: `seed migrates the configured database and creates every user and
opportunity listed in the fixture file. Opportunities refer to users by
the key given in the same file or by an existing user id.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, file, reset)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", cfg.SeedFile, "path to the seed fixture")
	cmd.Flags().BoolVar(&reset, "reset", cfg.ResetDB, "drop all tables before seeding")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, file string, reset bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Printf("logger init: %v", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	fx, err := seed.LoadFile(file)
	if err != nil {
		logger.Error("load fixture", zap.String("file", file), zap.Error(err))
		return err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database init", zap.Error(err))
		return err
	}
	logger.Info("connected to database", zap.String("driver", cfg.DBDriver))

	if reset {
		if err := db.Reset(gormDB, logger); err != nil {
			logger.Error("reset database", zap.Error(err))
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate database", zap.Error(err))
		return err
	}

	seeder := &seed.Seeder{
		Store:     repository.NewStore(gormDB),
		Validator: validation.New(),
		Logger:    logger,
	}

	res, err := seeder.Apply(ctx, fx)
	if err != nil {
		logger.Error("seed failed, nothing was written", zap.Error(err))
		return fmt.Errorf("seed %s: %w", file, err)
	}

	fmt.Printf("Seed completed: %d users, %d opportunities\n", res.Users, res.Opportunities)
	return nil
}
