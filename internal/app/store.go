package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/memstore"
	"github.com/specialistvlad/toolpipe/internal/objstore"
	"github.com/specialistvlad/toolpipe/internal/pgstore"
	"github.com/specialistvlad/toolpipe/internal/store"
)

// openStore builds the pipeline store for the chosen backend. Postgres and
// S3 read their connection settings from the environment; memory needs
// nothing. The returned closer releases the backend handle and may be nil.
func openStore(ctx context.Context, backend string) (store.Store, func() error, error) {
	logger := ctxlog.FromContext(ctx)

	switch backend {
	case "", "memory":
		return memstore.New(), nil, nil

	case "postgres":
		cfg, err := pgstore.ConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		db, err := pgstore.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Debug("Postgres store connected.", "max_open_conns", cfg.MaxOpenConns)
		return pgstore.New(db), db.Close, nil

	case "s3":
		cfg, err := objstore.ConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		client, err := objstore.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := objstore.EnsureBucket(ctx, client, cfg); err != nil {
			return nil, nil, err
		}
		logger.Debug("S3 store ready.", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
		return objstore.New(client, cfg.Bucket), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
