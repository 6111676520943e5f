// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// placeholders returns a comma-separated list of n SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// GetPagesByIDs fetches the pages with the given ids. Missing ids are
// silently skipped; the caller decides how to treat dangling references.
func (q *Queries) GetPagesByIDs(ctx context.Context, ids []int64) ([]Page, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, slug, cover_media_id, created_at, updated_at
		FROM pages WHERE id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.CoverMediaID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetMediaByIDs fetches the media records with the given ids.
func (q *Queries) GetMediaByIDs(ctx context.Context, ids []int64) ([]Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT id, file_name, url, mime, created_at, updated_at
		FROM media WHERE id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.FileName, &m.Url, &m.Mime, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// CreatePageParams holds parameters for CreatePage.
type CreatePageParams struct {
	Title        string
	Slug         string
	CoverMediaID sql.NullInt64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreatePage inserts a page and returns the created record.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (title, slug, cover_media_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, title, slug, cover_media_id, created_at, updated_at`,
		arg.Title, arg.Slug, arg.CoverMediaID, arg.CreatedAt, arg.UpdatedAt)

	var p Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.CoverMediaID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateMediaParams holds parameters for CreateMedia.
type CreateMediaParams struct {
	FileName  string
	Url       string
	Mime      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMedia inserts a media record and returns it.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (Media, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (file_name, url, mime, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, file_name, url, mime, created_at, updated_at`,
		arg.FileName, arg.Url, arg.Mime, arg.CreatedAt, arg.UpdatedAt)

	var m Media
	err := row.Scan(&m.ID, &m.FileName, &m.Url, &m.Mime, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}
