package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateLayout creates a new layout generation record and returns its ID
func (db *DB) CreateLayout(ctx context.Context, menuID, templateID string, templateVersion int, outputContext string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO layouts (menu_id, template_id, template_version, context, status)
		 VALUES ($1, $2, $3, $4, 'running')
		 RETURNING id`,
		menuID, templateID, templateVersion, outputContext,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create layout: %w", err)
	}
	return id, nil
}

// CompleteLayout stores the generated document and marks the record completed
func (db *DB) CompleteLayout(ctx context.Context, layoutID uuid.UUID, document []byte, pageCount int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE layouts SET status = $1, document = $2, page_count = $3, completed_at = NOW() WHERE id = $4`,
		StatusCompleted, document, pageCount, layoutID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete layout: %w", err)
	}
	return nil
}

// FailLayout marks a layout record as failed
func (db *DB) FailLayout(ctx context.Context, layoutID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE layouts SET status = $1, completed_at = NOW() WHERE id = $2`,
		StatusFailed, layoutID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark layout failed: %w", err)
	}
	return nil
}

// GetLayout retrieves a layout record by ID. Returns nil when not found.
func (db *DB) GetLayout(ctx context.Context, layoutID uuid.UUID) (*LayoutRecord, error) {
	var rec LayoutRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, menu_id, template_id, template_version, context, status, document, page_count, created_at, completed_at
		 FROM layouts WHERE id = $1`,
		layoutID,
	).Scan(&rec.ID, &rec.MenuID, &rec.TemplateID, &rec.TemplateVersion, &rec.Context,
		&rec.Status, &rec.Document, &rec.PageCount, &rec.CreatedAt, &rec.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}
	return &rec, nil
}

// ListLayouts retrieves layout records with optional filters
func (db *DB) ListLayouts(ctx context.Context, filters LayoutFilters) ([]LayoutRecord, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, menu_id, template_id, template_version, context, status, page_count, created_at, completed_at
		FROM layouts WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.MenuID != "" {
		query += fmt.Sprintf(" AND menu_id = $%d", argNum)
		args = append(args, filters.MenuID)
		argNum++
	}
	if filters.TemplateID != "" {
		query += fmt.Sprintf(" AND template_id = $%d", argNum)
		args = append(args, filters.TemplateID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	var layouts []LayoutRecord
	for rows.Next() {
		var rec LayoutRecord
		if err := rows.Scan(&rec.ID, &rec.MenuID, &rec.TemplateID, &rec.TemplateVersion, &rec.Context,
			&rec.Status, &rec.PageCount, &rec.CreatedAt, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		layouts = append(layouts, rec)
	}
	return layouts, nil
}

// DeleteLayout deletes a layout record
func (db *DB) DeleteLayout(ctx context.Context, layoutID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM layouts WHERE id = $1`, layoutID)
	if err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("layout not found: %s", layoutID)
	}
	return nil
}
