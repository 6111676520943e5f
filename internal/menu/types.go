// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menu implements the menu aggregate: population of item
// references, flat-to-tree serialization, and diff-based reconciliation
// of submitted item sets against stored ones.
package menu

import (
	"time"

	"github.com/contentforge/menus/internal/store"
	"github.com/contentforge/menus/internal/util"
)

// Summary holds the scalar fields of a menu.
type Summary struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Item is a populated menu item in API responses. Page and Image are
// present only when the population spec requested them.
type Item struct {
	ID         int64      `json:"id"`
	MenuID     int64      `json:"menu_id"`
	ParentID   *int64     `json:"parent_id,omitempty"`
	Title      string     `json:"title"`
	URL        string     `json:"url,omitempty"`
	Target     string     `json:"target,omitempty"`
	CSSClass   string     `json:"css_class,omitempty"`
	OrderIndex int64      `json:"order_index"`
	Page       *PageView  `json:"page,omitempty"`
	Image      *MediaView `json:"image,omitempty"`
}

// PageView is the populated representation of a related page.
type PageView struct {
	ID    int64      `json:"id"`
	Title string     `json:"title"`
	Slug  string     `json:"slug"`
	Cover *MediaView `json:"cover,omitempty"`
}

// MediaView is the populated representation of a media reference.
type MediaView struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Mime     string `json:"mime,omitempty"`
}

// ParentRef is the minimal parent summary attached to nested nodes.
type ParentRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Node is one node of the nested menu view: an item with its resolved
// children and, optionally, a parent back-reference.
type Node struct {
	Item
	Children []Node     `json:"children"`
	Parent   *ParentRef `json:"parent,omitempty"`
}

// View is a menu with its items as a flat populated collection.
type View struct {
	Summary
	Items []Item `json:"items"`
}

// NestedView is a menu with its items grouped into a tree.
type NestedView struct {
	Summary
	Items []Node `json:"items"`
}

// ItemInput is one submitted menu item. Items carrying an ID update the
// stored item; items without one are created. A parent is referenced
// either by the id of an item that already exists in the menu
// (ParentID) or by the position of a sibling within the same submission
// (ParentIndex), which allows new subtrees to be created in one call.
type ItemInput struct {
	ID          *int64 `json:"id,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	ParentIndex *int   `json:"parent_index,omitempty"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Target      string `json:"target,omitempty"`
	CSSClass    string `json:"css_class,omitempty"`
	PageID      *int64 `json:"page_id,omitempty"`
	MediaID     *int64 `json:"media_id,omitempty"`
}

// CreateInput is the payload for creating a menu. Items may accompany
// the menu (clone path); they are applied as creations against an empty
// previous set.
type CreateInput struct {
	Title       string      `json:"title"`
	Slug        string      `json:"slug,omitempty"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty"`
	Items       []ItemInput `json:"items,omitempty"`
}

// UpdateInput is the payload for updating a menu. Nil fields are left
// untouched; a non-nil Items slice replaces the full item set through
// reconciliation.
type UpdateInput struct {
	Title       *string      `json:"title,omitempty"`
	Slug        *string      `json:"slug,omitempty"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	Items       *[]ItemInput `json:"items,omitempty"`
}

// Empty reports whether the update carries no changes at all.
func (in UpdateInput) Empty() bool {
	return in.Title == nil && in.Slug == nil && in.ScheduledAt == nil && in.Items == nil
}

func summaryFromStore(m store.Menu) Summary {
	s := Summary{
		ID:        m.ID,
		Title:     m.Title,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PublishedAt.Valid {
		t := m.PublishedAt.Time
		s.PublishedAt = &t
	}
	if m.ScheduledAt.Valid {
		t := m.ScheduledAt.Time
		s.ScheduledAt = &t
	}
	return s
}

func itemFromStore(row store.MenuItem) Item {
	return Item{
		ID:         row.ID,
		MenuID:     row.MenuID,
		ParentID:   util.PtrFromNullInt64(row.ParentID),
		Title:      row.Title,
		URL:        row.Url,
		Target:     row.Target,
		CSSClass:   row.CssClass,
		OrderIndex: row.OrderIndex,
	}
}
