package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/scrapboard/internal/catalog"
)

// Stats contains seed operation counters. Updates counts changed rows
// including rows removed because the definition no longer lists them.
type Stats struct {
	Inserts int
	Updates int
}

// Run syncs db to the catalog definition inside one transaction.
//
// Membership, order, icons and flags always follow the definition. Prices
// and yields are written on insert and whenever the definition version
// differs from the stored one; while the version is unchanged, prices edited
// in the database survive restarts.
func Run(db *sql.DB, def catalog.Catalog) (Stats, error) {
	if err := def.Validate(); err != nil {
		return Stats{}, fmt.Errorf("validate catalog definition: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	newVersion, err := ensureVersion(tx, def.Version, &stats)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	names := make([]any, 0, len(def.Categories))
	for pos, cat := range def.Categories {
		if err := ensureCategory(tx, pos, cat, newVersion, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		names = append(names, cat.Name)
	}
	if err := prune(tx, &stats, `DELETE FROM material_categories`, "", nil, names); err != nil {
		_ = tx.Rollback()
		return Stats{}, fmt.Errorf("remove unlisted categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

// ensureVersion records version and reports whether it differs from the
// stored one. An empty database counts as a new version.
func ensureVersion(tx *sql.Tx, version string, stats *Stats) (bool, error) {
	var current string
	err := tx.QueryRow(`SELECT value FROM catalog_meta WHERE key = 'version'`).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`INSERT INTO catalog_meta (key, value) VALUES ('version', ?)`, version); err != nil {
			return false, fmt.Errorf("insert catalog version: %w", err)
		}
		stats.Inserts++
		return true, nil
	case err != nil:
		return false, fmt.Errorf("check catalog version: %w", err)
	}

	if current == version {
		return false, nil
	}
	if _, err := tx.Exec(`
		UPDATE catalog_meta
		SET value = ?, updated_at = CURRENT_TIMESTAMP
		WHERE key = 'version'
	`, version); err != nil {
		return false, fmt.Errorf("update catalog version: %w", err)
	}
	stats.Updates++
	return true, nil
}

func ensureCategory(tx *sql.Tx, pos int, cat catalog.Category, newVersion bool, stats *Stats) error {
	var id int64
	err := tx.QueryRow(`SELECT id FROM material_categories WHERE name = ?`, cat.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.Exec(`
			INSERT INTO material_categories (name, icon, is_precious, is_yield_based, position)
			VALUES (?, ?, ?, ?, ?)
		`, cat.Name, cat.Icon, cat.IsPrecious, cat.IsYieldBased, pos)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", cat.Name, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("read category id %q: %w", cat.Name, err)
		}
		stats.Inserts++
	case err != nil:
		return fmt.Errorf("check category %q existence: %w", cat.Name, err)
	default:
		res, err := tx.Exec(`
			UPDATE material_categories
			SET icon = ?, is_precious = ?, is_yield_based = ?, position = ?
			WHERE id = ?
				AND (icon IS NOT ? OR is_precious IS NOT ? OR is_yield_based IS NOT ? OR position IS NOT ?)
		`, cat.Icon, cat.IsPrecious, cat.IsYieldBased, pos, id,
			cat.Icon, cat.IsPrecious, cat.IsYieldBased, pos)
		if err != nil {
			return fmt.Errorf("update category %q: %w", cat.Name, err)
		}
		if err := countUpdates(res, stats); err != nil {
			return err
		}
	}

	names := make([]any, 0, len(cat.Items))
	for itemPos, item := range cat.Items {
		if err := ensureItem(tx, id, itemPos, item, newVersion, stats); err != nil {
			return fmt.Errorf("category %q: %w", cat.Name, err)
		}
		names = append(names, item.Name)
	}
	if err := prune(tx, stats, `DELETE FROM material_items`, "category_id = ?", []any{id}, names); err != nil {
		return fmt.Errorf("category %q: remove unlisted items: %w", cat.Name, err)
	}
	return nil
}

func ensureItem(tx *sql.Tx, categoryID int64, pos int, item catalog.Item, newVersion bool, stats *Stats) error {
	var id int64
	err := tx.QueryRow(`
		SELECT id
		FROM material_items
		WHERE category_id = ? AND name = ?
	`, categoryID, item.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO material_items (category_id, name, price_per_lb, gold_yield, pd_yield, pt_yield, rh_yield, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, categoryID, item.Name, item.Price, item.GoldYield, item.PdYield, item.PtYield, item.RhYield, pos); err != nil {
			return fmt.Errorf("insert item %q: %w", item.Name, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check item %q existence: %w", item.Name, err)
	}

	var res sql.Result
	if newVersion {
		res, err = tx.Exec(`
			UPDATE material_items
			SET price_per_lb = ?, gold_yield = ?, pd_yield = ?, pt_yield = ?, rh_yield = ?, position = ?
			WHERE id = ?
				AND (price_per_lb IS NOT ? OR gold_yield IS NOT ? OR pd_yield IS NOT ?
					OR pt_yield IS NOT ? OR rh_yield IS NOT ? OR position IS NOT ?)
		`, item.Price, item.GoldYield, item.PdYield, item.PtYield, item.RhYield, pos, id,
			item.Price, item.GoldYield, item.PdYield, item.PtYield, item.RhYield, pos)
	} else {
		res, err = tx.Exec(`
			UPDATE material_items
			SET position = ?
			WHERE id = ? AND position IS NOT ?
		`, pos, id, pos)
	}
	if err != nil {
		return fmt.Errorf("update item %q: %w", item.Name, err)
	}
	return countUpdates(res, stats)
}

// prune deletes rows matched by scope whose name is not listed in keep.
func prune(tx *sql.Tx, stats *Stats, del, scope string, scopeArgs, keep []any) error {
	var where []string
	args := append([]any(nil), scopeArgs...)
	if scope != "" {
		where = append(where, scope)
	}
	if len(keep) > 0 {
		where = append(where, "name NOT IN ("+strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ")+")")
		args = append(args, keep...)
	}

	query := del
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	return countUpdates(res, stats)
}

func countUpdates(res sql.Result, stats *Stats) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	stats.Updates += int(n)
	return nil
}
