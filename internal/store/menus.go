// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = `id, title, slug, published_at, scheduled_at, created_at, updated_at`

func scanMenu(row *sql.Row) (Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Title, &m.Slug, &m.PublishedAt, &m.ScheduledAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMenuParams holds parameters for CreateMenu.
type CreateMenuParams struct {
	Title       string
	Slug        string
	PublishedAt sql.NullTime
	ScheduledAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateMenu inserts a menu and returns the created record.
func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO menus (title, slug, published_at, scheduled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+menuColumns,
		arg.Title, arg.Slug, arg.PublishedAt, arg.ScheduledAt, arg.CreatedAt, arg.UpdatedAt)
	return scanMenu(row)
}

// GetMenuByID fetches a menu by its primary key.
func (q *Queries) GetMenuByID(ctx context.Context, id int64) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	return scanMenu(row)
}

// GetMenuBySlug fetches a menu by its unique slug.
func (q *Queries) GetMenuBySlug(ctx context.Context, slug string) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE slug = ?`, slug)
	return scanMenu(row)
}

// ListMenusParams holds pagination parameters for ListMenus.
type ListMenusParams struct {
	Limit  int64
	Offset int64
}

// ListMenus returns menus ordered by title.
func (q *Queries) ListMenus(ctx context.Context, arg ListMenusParams) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuColumns+` FROM menus ORDER BY title, id LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []Menu
	for rows.Next() {
		var m Menu
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.PublishedAt, &m.ScheduledAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// CountMenus returns the total number of menus.
func (q *Queries) CountMenus(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus`).Scan(&count)
	return count, err
}

// MenuSlugExistsParams holds parameters for MenuSlugExists.
type MenuSlugExistsParams struct {
	Slug      string
	ExcludeID int64
}

// MenuSlugExists returns the number of menus other than ExcludeID using
// the given slug. Pass ExcludeID 0 to match against all menus.
func (q *Queries) MenuSlugExists(ctx context.Context, arg MenuSlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menus WHERE slug = ? AND id != ?`,
		arg.Slug, arg.ExcludeID).Scan(&count)
	return count, err
}

// UpdateMenuParams holds parameters for UpdateMenu.
type UpdateMenuParams struct {
	ID          int64
	Title       string
	Slug        string
	PublishedAt sql.NullTime
	ScheduledAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdateMenu updates a menu's scalar fields and returns the new record.
func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE menus
		SET title = ?, slug = ?, published_at = ?, scheduled_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+menuColumns,
		arg.Title, arg.Slug, arg.PublishedAt, arg.ScheduledAt, arg.UpdatedAt, arg.ID)
	return scanMenu(row)
}

// PublishMenuParams holds parameters for PublishMenu.
type PublishMenuParams struct {
	ID          int64
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// PublishMenu marks a menu as published and clears its schedule.
func (q *Queries) PublishMenu(ctx context.Context, arg PublishMenuParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE menus
		SET published_at = ?, scheduled_at = NULL, updated_at = ?
		WHERE id = ?`,
		arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return err
}

// ListScheduledMenusDue returns unpublished menus whose scheduled time has elapsed.
func (q *Queries) ListScheduledMenusDue(ctx context.Context, now time.Time) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuColumns+` FROM menus
		WHERE published_at IS NULL AND scheduled_at IS NOT NULL AND scheduled_at <= ?
		ORDER BY scheduled_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []Menu
	for rows.Next() {
		var m Menu
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.PublishedAt, &m.ScheduledAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// DeleteMenu removes a menu. Owned items are removed by the reconciler
// first; the FK cascade is a backstop.
func (q *Queries) DeleteMenu(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	return err
}
