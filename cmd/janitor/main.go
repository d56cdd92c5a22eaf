// Lambda de mantenimiento: purga historial viejo y claims huérfanos.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/infra/logging"
)

type purge struct {
	name string
	sql  string
}

var purges = []purge{
	{"closed_tickets", `DELETE FROM tickets WHERE closed_at IS NOT NULL AND closed_at < now() - INTERVAL '30 days'`},
	{"stale_claims", `DELETE FROM tickets WHERE channel_id IS NULL AND closed_at IS NULL AND created_at < now() - INTERVAL '1 hour'`},
	{"old_decisions", `DELETE FROM suggestion_decisions WHERE decided_at < now() - INTERVAL '180 days'`},
}

// execer es lo que usamos del pool (facilita el test).
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func run(ctx context.Context, db execer, log *zap.Logger) (map[string]int64, error) {
	out := make(map[string]int64, len(purges))
	for _, p := range purges {
		tag, err := db.Exec(ctx, p.sql)
		if err != nil {
			return out, fmt.Errorf("purge %s: %w", p.name, err)
		}
		out[p.name] = tag.RowsAffected()
		log.Info("purged", zap.String("purge", p.name), zap.Int64("rows", tag.RowsAffected()))
	}
	return out, nil
}

func handler(ctx context.Context) (map[string]int64, error) {
	log, err := logging.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Warn("no DATABASE_URL, nothing to purge")
		return nil, nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	return run(cctx, pool, log)
}

func main() { lambda.Start(handler) }
