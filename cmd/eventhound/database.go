package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventhound/shared/go/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	dbPingTimeout    = 5 * time.Second
	dbWaitBudget     = 30 * time.Second
	dbInitialBackoff = 500 * time.Millisecond
	dbMaxBackoff     = 5 * time.Second
)

// openDatabase opens the event cache database and waits until it answers
// pings before handing it out.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log := logging.Component("database")
	if err := waitForDatabase(ctx, db, log, dbWaitBudget, dbInitialBackoff); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDatabase pings the cache database until it responds, the wait budget
// runs out, or the caller cancels. Backoff doubles per attempt up to
// dbMaxBackoff.
func waitForDatabase(ctx context.Context, db *sql.DB, log zerolog.Logger, budget, backoff time.Duration) error {
	deadline := time.Now().Add(budget)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		err := db.PingContext(pingCtx)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempts", attempt).Msg("Event cache database ready")
			}
			return nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			return fmt.Errorf("ping database: %w", err)
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Event cache database not ready, retrying")

		time.Sleep(backoff)
		backoff *= 2
		if backoff > dbMaxBackoff {
			backoff = dbMaxBackoff
		}
	}
}
