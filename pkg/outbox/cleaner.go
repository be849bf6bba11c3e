package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cleaner purges delivered messages past their retention window and, when
// DeadRetention is set, dead messages whose attempts reached the threshold.
// The status-changed audit trail lives on the work order itself, so dropping
// outbox rows never loses history.
type Cleaner struct {
	pool       *pgxpool.Pool
	table      pgx.Identifier
	opts       CleanerOptions
	tableLabel string
}

func NewCleaner(pool *pgxpool.Pool, table pgx.Identifier, opts CleanerOptions) (*Cleaner, error) {
	if pool == nil {
		return nil, invalidConfig("pool is required")
	}
	if len(table) == 0 {
		return nil, invalidConfig("table is required")
	}
	opts.setDefaults()
	if opts.Logger == nil {
		opts.Logger = logrusNop()
	}
	// setDefaults aligns the threshold with the relay's retry cap; only an
	// explicitly negative value can land here.
	if opts.DeadRetention > 0 && opts.DeadAttemptsThreshold <= 0 {
		return nil, invalidConfig("dead retention requires DeadAttemptsThreshold > 0")
	}
	return &Cleaner{
		pool:       pool,
		table:      table,
		opts:       opts,
		tableLabel: TableLabel(table),
	}, nil
}

func (c *Cleaner) Run(ctx context.Context) error {
	if ctx == nil {
		return invalidConfig("ctx is required")
	}
	if !c.opts.Enabled {
		return nil
	}

	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := c.cleanOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.opts.Logger.WithError(err).WithField("table", c.tableLabel).Warn("outbox: cleaner tick failed")
		}
	}
}

func (c *Cleaner) cleanOnce(ctx context.Context) error {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tableName := c.table.Sanitize()

	publishedQ := fmt.Sprintf(
		`DELETE FROM %s WHERE published_at IS NOT NULL AND published_at < $1`,
		tableName,
	)
	tag, err := tx.Exec(ctx, publishedQ, time.Now().Add(-c.opts.Retention))
	if err != nil {
		return fmt.Errorf("outbox cleaner delete published: %w", err)
	}
	purgedPublished := tag.RowsAffected()

	var purgedDead int64
	if c.opts.DeadRetention > 0 {
		deadQ := fmt.Sprintf(
			`DELETE FROM %s
			  WHERE published_at IS NULL
			    AND attempts >= $1
			    AND created_at < $2`,
			tableName,
		)
		tag, err := tx.Exec(ctx, deadQ, c.opts.DeadAttemptsThreshold, time.Now().Add(-c.opts.DeadRetention))
		if err != nil {
			return fmt.Errorf("outbox cleaner delete dead: %w", err)
		}
		purgedDead = tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if purgedPublished > 0 || purgedDead > 0 {
		c.opts.Logger.WithField("table", c.tableLabel).
			WithField("published", purgedPublished).
			WithField("dead", purgedDead).
			Info("outbox: purged expired messages")
	}

	return nil
}
