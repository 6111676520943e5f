// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuItemColumns = `id, menu_id, parent_id, title, url, target, css_class, page_id, media_id, order_index, created_at, updated_at`

func scanMenuItemRow(row *sql.Row) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(&i.ID, &i.MenuID, &i.ParentID, &i.Title, &i.Url, &i.Target,
		&i.CssClass, &i.PageID, &i.MediaID, &i.OrderIndex, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// ListMenuItems returns all items of a menu as a flat collection,
// ordered by sibling position.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE menu_id = ?
		ORDER BY order_index, id`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var i MenuItem
		if err := rows.Scan(&i.ID, &i.MenuID, &i.ParentID, &i.Title, &i.Url, &i.Target,
			&i.CssClass, &i.PageID, &i.MediaID, &i.OrderIndex, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// GetMenuItem fetches a single item by id.
func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItemRow(row)
}

// CreateMenuItemParams holds parameters for CreateMenuItem.
type CreateMenuItemParams struct {
	MenuID     int64
	ParentID   sql.NullInt64
	Title      string
	Url        string
	Target     string
	CssClass   string
	PageID     sql.NullInt64
	MediaID    sql.NullInt64
	OrderIndex int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateMenuItem inserts a menu item and returns the created record.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (menu_id, parent_id, title, url, target, css_class, page_id, media_id, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+menuItemColumns,
		arg.MenuID, arg.ParentID, arg.Title, arg.Url, arg.Target, arg.CssClass,
		arg.PageID, arg.MediaID, arg.OrderIndex, arg.CreatedAt, arg.UpdatedAt)
	return scanMenuItemRow(row)
}

// UpdateMenuItemParams holds parameters for UpdateMenuItem.
type UpdateMenuItemParams struct {
	ID         int64
	ParentID   sql.NullInt64
	Title      string
	Url        string
	Target     string
	CssClass   string
	PageID     sql.NullInt64
	MediaID    sql.NullInt64
	OrderIndex int64
	UpdatedAt  time.Time
}

// UpdateMenuItem updates an item in place and returns the new record.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET parent_id = ?, title = ?, url = ?, target = ?, css_class = ?, page_id = ?, media_id = ?, order_index = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+menuItemColumns,
		arg.ParentID, arg.Title, arg.Url, arg.Target, arg.CssClass,
		arg.PageID, arg.MediaID, arg.OrderIndex, arg.UpdatedAt, arg.ID)
	return scanMenuItemRow(row)
}

// DeleteMenuItem removes a single item.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// CountMenuItems returns the number of items owned by a menu.
func (q *Queries) CountMenuItems(ctx context.Context, menuID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items WHERE menu_id = ?`, menuID).Scan(&count)
	return count, err
}
