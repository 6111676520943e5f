// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Menu is a navigation menu record.
type Menu struct {
	ID          int64
	Title       string
	Slug        string
	PublishedAt sql.NullTime
	ScheduledAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuItem is an item in a navigation menu. ParentID references another
// item of the same menu; items without a parent are roots.
type MenuItem struct {
	ID         int64
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

// Page is a content page referenced by menu items.
type Page struct {
	ID           int64
	Title        string
	Slug         string
	CoverMediaID sql.NullInt64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Media is an uploaded asset referenced by menu items and pages.
type Media struct {
	ID        int64
	FileName  string
	Url       string
	Mime      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is an entry in the event log.
type Event struct {
	ID        int64
	Level     string
	Source    string
	Message   string
	CreatedAt time.Time
}

// Webhook is a registered webhook endpoint.
type Webhook struct {
	ID        int64
	Name      string
	Url       string
	Events    string
	Secret    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
