package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()
		return Open(ctx, cfg.DatabaseURL)
	})
}

// Open connects to Postgres for postgres:// and postgresql:// URLs and to a SQLite file otherwise.
func Open(ctx context.Context, databaseURL string) (repository.Repository, error) {
	if isPostgresURL(databaseURL) {
		return openPostgres(ctx, databaseURL)
	}
	repo, err := OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, err)
	}
	return repo, nil
}

func isPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

func openPostgres(ctx context.Context, databaseURL string) (repository.Repository, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w: %w", repository.ErrStoreUnavailable, err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", repository.ErrStoreUnavailable, err)
	}
	if err := RunMigration(ctx, p); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return NewPostgresRepository(p), nil
}
