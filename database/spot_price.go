package database

import (
	"context"
	"fmt"

	"github.com/rnovacek/czspot-go/types"
)

// SaveSpotPrices upserts raw hourly quotes for one day. Prices are
// stored as published (EUR/MWh), conversion happens at snapshot build
// time so currency or fee changes don't invalidate the cache.
func (d *Database) SaveSpotPrices(ctx context.Context, day string, prices []types.HourPrice) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving spot prices: %w", err)
	}

	for _, hp := range prices {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO spot_price (day, hour, price) VALUES (?, ?, ?)
			ON CONFLICT(day, hour) DO UPDATE SET price = excluded.price`,
			day, hp.Hour, hp.Price)
		if err != nil {
			if err := tx.Rollback(); err != nil {
				return fmt.Errorf("rollback spot price save: %w", err)
			}
			return fmt.Errorf("saving spot price for %s hour %d: %w", day, hp.Hour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing spot prices: %w", err)
	}
	return nil
}

// GetSpotPricesForDay returns the cached quotes of one day, empty when
// the day was never fetched.
func (d *Database) GetSpotPricesForDay(ctx context.Context, day string) ([]types.HourPrice, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT hour, price FROM spot_price
		WHERE day = ?
		ORDER BY hour ASC`, day)
	if err != nil {
		return nil, fmt.Errorf("fetching spot prices for %s: %w", day, err)
	}
	defer rows.Close()

	var prices []types.HourPrice
	for rows.Next() {
		var hp types.HourPrice
		if err := rows.Scan(&hp.Hour, &hp.Price); err != nil {
			return nil, fmt.Errorf("scanning spot price row: %w", err)
		}
		prices = append(prices, hp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading spot price rows: %w", err)
	}

	return prices, nil
}

func (d *Database) PurgeSpotPrices(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "spot_price", retentionDays)
}
