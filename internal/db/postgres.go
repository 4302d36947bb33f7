package db

import (
	"context"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var newPoolFn = pgxpool.NewWithConfig
var pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// ConnectPostgres builds the privileged store client. The pool authenticates
// with the service-role credential, so it bypasses row-level security; it is
// only ever constructed server-side.
func ConnectPostgres(cfg config.Config) (*pgxpool.Pool, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.ConnConfig.Password = cfg.ServiceKey

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
