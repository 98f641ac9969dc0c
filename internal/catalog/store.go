package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrEmpty is returned by Load when no catalog has been seeded.
var ErrEmpty = errors.New("catalog has not been seeded")

// Load reads the catalog template from db, preserving category and item order.
func Load(ctx context.Context, db *sql.DB) (Catalog, error) {
	var c Catalog
	err := db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = 'version'`).Scan(&c.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Catalog{}, ErrEmpty
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("query catalog version: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, icon, is_precious, is_yield_based
		FROM material_categories
		ORDER BY position, id
	`)
	if err != nil {
		return Catalog{}, fmt.Errorf("query material categories: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]int)
	for rows.Next() {
		var id int64
		cat := Category{Items: []Item{}}
		if err := rows.Scan(&id, &cat.Name, &cat.Icon, &cat.IsPrecious, &cat.IsYieldBased); err != nil {
			return Catalog{}, fmt.Errorf("scan material category: %w", err)
		}
		byID[id] = len(c.Categories)
		c.Categories = append(c.Categories, cat)
	}
	if err := rows.Err(); err != nil {
		return Catalog{}, fmt.Errorf("iterate material categories: %w", err)
	}

	itemRows, err := db.QueryContext(ctx, `
		SELECT category_id, name, price_per_lb, gold_yield, pd_yield, pt_yield, rh_yield
		FROM material_items
		ORDER BY category_id, position, id
	`)
	if err != nil {
		return Catalog{}, fmt.Errorf("query material items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var categoryID int64
		var item Item
		if err := itemRows.Scan(&categoryID, &item.Name, &item.Price, &item.GoldYield, &item.PdYield, &item.PtYield, &item.RhYield); err != nil {
			return Catalog{}, fmt.Errorf("scan material item: %w", err)
		}
		idx, ok := byID[categoryID]
		if !ok {
			continue
		}
		item.IsPrecious = c.Categories[idx].IsPrecious
		c.Categories[idx].Items = append(c.Categories[idx].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return Catalog{}, fmt.Errorf("iterate material items: %w", err)
	}

	return c, nil
}
