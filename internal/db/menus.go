package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveMenu upserts a menu definition keyed by its external menu_id.
func (db *DB) SaveMenu(ctx context.Context, menuID, name, contentHash string, content []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO menus (menu_id, name, content_hash, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (menu_id) DO UPDATE SET name = $2, content_hash = $3, content = $4, updated_at = NOW()`,
		menuID, name, contentHash, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save menu %s: %w", menuID, err)
	}
	return nil
}

// GetMenu retrieves a menu by its external menu_id. Returns nil when the
// menu does not exist.
func (db *DB) GetMenu(ctx context.Context, menuID string) (*MenuRecord, error) {
	var rec MenuRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, menu_id, name, content_hash, content, created_at, updated_at
		 FROM menus WHERE menu_id = $1`,
		menuID,
	).Scan(&rec.ID, &rec.MenuID, &rec.Name, &rec.ContentHash, &rec.Content, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu %s: %w", menuID, err)
	}
	return &rec, nil
}

// ListMenus retrieves recently updated menus
func (db *DB) ListMenus(ctx context.Context, limit int) ([]MenuRecord, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, menu_id, name, content_hash, content, created_at, updated_at
		 FROM menus ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	var menus []MenuRecord
	for rows.Next() {
		var rec MenuRecord
		if err := rows.Scan(&rec.ID, &rec.MenuID, &rec.Name, &rec.ContentHash, &rec.Content, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, rec)
	}
	return menus, nil
}

// DeleteMenu deletes a menu and its stored layouts (via cascade)
func (db *DB) DeleteMenu(ctx context.Context, menuID string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM menus WHERE menu_id = $1`, menuID)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("menu not found: %s", menuID)
	}
	return nil
}
