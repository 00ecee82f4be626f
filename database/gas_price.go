package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/types"
)

func (d *Database) SaveGasPrice(ctx context.Context, day string, price float64) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO gas_price (day, price) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET price = excluded.price`,
		day, price)
	if err != nil {
		return fmt.Errorf("saving gas price for %s: %w", day, err)
	}
	return nil
}

// GetGasPricesFrom returns cached daily gas prices starting at the given
// day, typically queried from yesterday to cover the today fallback.
func (d *Database) GetGasPricesFrom(ctx context.Context, fromDay string) ([]types.DayPrice, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT day, price FROM gas_price
		WHERE day >= ?
		ORDER BY day ASC`, fromDay)
	if err != nil {
		return nil, fmt.Errorf("fetching gas prices from %s: %w", fromDay, err)
	}
	defer rows.Close()

	var prices []types.DayPrice
	for rows.Next() {
		var day string
		var price float64
		if err := rows.Scan(&day, &price); err != nil {
			return nil, fmt.Errorf("scanning gas price row: %w", err)
		}
		t, err := time.ParseInLocation("2006-01-02", day, hours.Prague())
		if err != nil {
			return nil, fmt.Errorf("parsing gas price day %q: %w", day, err)
		}
		prices = append(prices, types.DayPrice{Day: t, Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading gas price rows: %w", err)
	}

	return prices, nil
}

func (d *Database) PurgeGasPrices(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "gas_price", retentionDays)
}
