package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveFxRate caches the EUR-to-currency multiplier for one Prague day so
// a restart doesn't depend on the CNB being reachable.
func (d *Database) SaveFxRate(ctx context.Context, day, currency string, rate float64) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO fx_rate (day, currency, rate) VALUES (?, ?, ?)
		ON CONFLICT(day, currency) DO UPDATE SET rate = excluded.rate`,
		day, currency, rate)
	if err != nil {
		return fmt.Errorf("saving fx rate for %s/%s: %w", day, currency, err)
	}
	return nil
}

// GetLatestFxRate returns the most recent cached multiplier for the
// currency, false when none is cached yet.
func (d *Database) GetLatestFxRate(ctx context.Context, currency string) (float64, bool, error) {
	var rate float64
	err := d.read.QueryRowContext(ctx, `
		SELECT rate FROM fx_rate
		WHERE currency = ?
		ORDER BY day DESC
		LIMIT 1`, currency).Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("fetching fx rate for %s: %w", currency, err)
	}
	return rate, true, nil
}

func (d *Database) PurgeFxRates(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "fx_rate", retentionDays)
}
