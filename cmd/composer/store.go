package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// r2Prefix is the object prefix for composer data in the R2 bucket.
const r2Prefix = "composer"

type storeOpener func(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.PostService, func() error, error)

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.PostService, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case "", "file":
		medium := repository.NewFileMedium(cfg.DataDir)
		return service.NewPostService(repository.NewMediumPostRepository(medium, log), log), noop, nil

	case "s3", "r2":
		client, err := repository.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return nil, nil, err
		}
		medium := repository.NewS3Medium(client, cfg.R2.BucketName, r2Prefix)
		return service.NewPostService(repository.NewMediumPostRepository(medium, log), log), noop, nil

	case "postgres":
		if cfg.PostgresURI == "" {
			return nil, nil, fmt.Errorf("POSTGRES_URI is required for postgres storage")
		}
		db, err := sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database is unreachable: %w", err)
		}
		if err := repository.EnsurePostSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return service.NewPostService(repository.NewPostRepository(db), log), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage %q (want file, s3 or postgres)", cfg.Storage)
}

// withPosts opens the configured store for the duration of fn.
func (a *app) withPosts(cmd *cobra.Command, fn func(ctx context.Context, posts service.PostService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	posts, closeStore, err := a.openStore(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.log.WithError(err).Warn("Failed to close store")
		}
	}()
	return fn(ctx, posts)
}
