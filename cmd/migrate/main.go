// Command migrate applies the embedded PostgreSQL migrations with goose.
//
//	migrate [up|down|status|redo|reset|version|up-to VERSION|down-to VERSION]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/lbsshop/storefront-api/internal/infrastructure/db/postgres"
	"github.com/lbsshop/storefront-api/internal/pkg/config"
	"github.com/lbsshop/storefront-api/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	timeout := flag.Duration("timeout", time.Minute, "overall migration timeout")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.Init(logger.Options{Level: *level, Pretty: true, Service: "storefront-migrate"})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, log, arguments[0], arguments[1:]); err != nil {
		log.Error().Err(err).Str("command", arguments[0]).Msg("migration failed")
		cancel()
		os.Exit(1)
	}
	log.Info().Str("command", arguments[0]).Msg("migration finished")
}

func run(ctx context.Context, log zerolog.Logger, command string, args []string) error {
	var cfg config.PostgresConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.URL})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close postgres")
		}
	}()

	return postgres.Migrate(ctx, db, command, args...)
}
