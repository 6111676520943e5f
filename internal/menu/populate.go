// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"

	"github.com/contentforge/menus/internal/layout"
	"github.com/contentforge/menus/internal/store"
)

// populateItems converts stored rows into item views and fetches the
// relation and media references the population spec asks for. The spec
// drives every fetch: a field absent from the spec is never loaded, a
// one-level-deep entry additionally loads the target's own references.
func (s *Service) populateItems(ctx context.Context, q *store.Queries, rows []store.MenuItem) ([]Item, error) {
	spec, err := s.resolver.Resolve(layout.MenuItemLayout)
	if err != nil {
		return nil, fmt.Errorf("resolving population: %w", err)
	}

	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = itemFromStore(row)
	}

	if pop, ok := spec["page"]; ok {
		if err := s.populatePages(ctx, q, rows, items, pop); err != nil {
			return nil, err
		}
	}
	if _, ok := spec["image"]; ok {
		if err := s.populateImages(ctx, q, rows, items); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *Service) populatePages(ctx context.Context, q *store.Queries, rows []store.MenuItem, items []Item, pop layout.Population) error {
	ids := collectIDs(rows, func(r store.MenuItem) (int64, bool) {
		return r.PageID.Int64, r.PageID.Valid
	})
	if len(ids) == 0 {
		return nil
	}

	pages, err := q.GetPagesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetching pages: %w", err)
	}

	views := make(map[int64]*PageView, len(pages))
	for _, p := range pages {
		views[p.ID] = &PageView{ID: p.ID, Title: p.Title, Slug: p.Slug}
	}

	// One level deeper: the page's own media references.
	if pop.Populate["cover"] {
		coverIDs := collectIDs(pages, func(p store.Page) (int64, bool) {
			return p.CoverMediaID.Int64, p.CoverMediaID.Valid
		})
		covers, err := q.GetMediaByIDs(ctx, coverIDs)
		if err != nil {
			return fmt.Errorf("fetching page covers: %w", err)
		}
		coverByID := make(map[int64]store.Media, len(covers))
		for _, m := range covers {
			coverByID[m.ID] = m
		}
		for _, p := range pages {
			if p.CoverMediaID.Valid {
				if m, ok := coverByID[p.CoverMediaID.Int64]; ok {
					views[p.ID].Cover = mediaView(m)
				}
			}
		}
	}

	for i, row := range rows {
		if row.PageID.Valid {
			if v, ok := views[row.PageID.Int64]; ok {
				pv := *v
				items[i].Page = &pv
			}
		}
	}
	return nil
}

func (s *Service) populateImages(ctx context.Context, q *store.Queries, rows []store.MenuItem, items []Item) error {
	ids := collectIDs(rows, func(r store.MenuItem) (int64, bool) {
		return r.MediaID.Int64, r.MediaID.Valid
	})
	if len(ids) == 0 {
		return nil
	}

	media, err := q.GetMediaByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetching media: %w", err)
	}
	byID := make(map[int64]store.Media, len(media))
	for _, m := range media {
		byID[m.ID] = m
	}

	for i, row := range rows {
		if row.MediaID.Valid {
			if m, ok := byID[row.MediaID.Int64]; ok {
				items[i].Image = mediaView(m)
			}
		}
	}
	return nil
}

func mediaView(m store.Media) *MediaView {
	return &MediaView{ID: m.ID, FileName: m.FileName, URL: m.Url, Mime: m.Mime}
}

// collectIDs gathers distinct ids from rows, preserving first-seen order.
func collectIDs[T any](rows []T, get func(T) (int64, bool)) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, row := range rows {
		if id, ok := get(row); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
