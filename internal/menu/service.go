// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/contentforge/menus/internal/cache"
	"github.com/contentforge/menus/internal/layout"
	"github.com/contentforge/menus/internal/model"
	"github.com/contentforge/menus/internal/store"
	"github.com/contentforge/menus/internal/util"
)

// titleSanitizer strips all markup from user-supplied scalar fields.
// Menu and item titles are plain text; anything tag-shaped is hostile.
var titleSanitizer = bluemonday.StrictPolicy()

// Webhook event types emitted by the service.
const (
	EventMenuCreated   = "menu.created"
	EventMenuUpdated   = "menu.updated"
	EventMenuDeleted   = "menu.deleted"
	EventMenuPublished = "menu.published"
)

// EventData is the payload attached to menu webhook events.
type EventData struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// EventSink receives domain events for asynchronous delivery. The
// webhook dispatcher implements it; a nil sink disables eventing.
type EventSink interface {
	DispatchEvent(ctx context.Context, eventType string, data any) error
}

// Service is the menu aggregate façade. It coordinates population
// resolution, tree serialization and reconciliation over the store.
type Service struct {
	db        *sql.DB
	queries   *store.Queries
	resolver  *layout.Resolver
	menuCache *cache.MenuCache
	events    EventSink
}

// NewService creates a menu service. menuCache and events may be nil.
func NewService(db *sql.DB, resolver *layout.Resolver, menuCache *cache.MenuCache, events EventSink) *Service {
	return &Service{
		db:        db,
		queries:   store.New(db),
		resolver:  resolver,
		menuCache: menuCache,
		events:    events,
	}
}

// Population returns the population spec for the named layout.
func (s *Service) Population(layoutName string) (layout.Spec, error) {
	return s.resolver.Resolve(layoutName)
}

// FindParams are the parameters for Find.
type FindParams struct {
	Limit  int64
	Offset int64
}

// Find returns populated menus with the total count for pagination.
func (s *Service) Find(ctx context.Context, params FindParams) ([]View, int64, error) {
	menus, err := s.queries.ListMenus(ctx, store.ListMenusParams{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing menus: %w", err)
	}

	total, err := s.queries.CountMenus(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting menus: %w", err)
	}

	views := make([]View, 0, len(menus))
	for _, m := range menus {
		view, err := s.buildView(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// FindOne returns a single populated menu.
func (s *Service) FindOne(ctx context.Context, id int64) (View, error) {
	m, err := s.queries.GetMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return View{}, ErrMenuNotFound
		}
		return View{}, fmt.Errorf("fetching menu %d: %w", id, err)
	}
	return s.buildView(ctx, m)
}

// GetBySlug returns a single populated menu by slug, cache-first.
func (s *Service) GetBySlug(ctx context.Context, slug string) (View, error) {
	if s.menuCache != nil {
		cached, err := s.menuCache.Get(ctx, slug)
		if err == nil && cached != nil {
			items, err := s.populateItems(ctx, s.queries, cached.Items)
			if err != nil {
				return View{}, err
			}
			return View{Summary: summaryFromStore(cached.Menu), Items: items}, nil
		}
	}

	m, err := s.queries.GetMenuBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return View{}, ErrMenuNotFound
		}
		return View{}, fmt.Errorf("fetching menu %q: %w", slug, err)
	}

	rows, err := s.queries.ListMenuItems(ctx, m.ID)
	if err != nil {
		return View{}, fmt.Errorf("listing items of menu %d: %w", m.ID, err)
	}
	if s.menuCache != nil {
		_ = s.menuCache.Set(ctx, m, rows)
	}

	items, err := s.populateItems(ctx, s.queries, rows)
	if err != nil {
		return View{}, err
	}
	return View{Summary: summaryFromStore(m), Items: items}, nil
}

// Nest converts a flat view into the nested representation. It is a
// pure reshaping step: population already happened, nothing is fetched.
func Nest(view View, withParent bool) NestedView {
	return NestedView{
		Summary: view.Summary,
		Items:   BuildTree(view.Items, withParent),
	}
}

// CheckAvailability reports whether a slug is free. excludeID exempts a
// menu from the check so updates do not collide with themselves.
func (s *Service) CheckAvailability(ctx context.Context, slug string, excludeID int64) (bool, error) {
	count, err := s.queries.MenuSlugExists(ctx, store.MenuSlugExistsParams{
		Slug:      slug,
		ExcludeID: excludeID,
	})
	if err != nil {
		return false, fmt.Errorf("checking slug availability: %w", err)
	}
	return count == 0, nil
}

// Create persists a new menu with an optional item set. Items are
// applied through reconciliation against an empty previous set, which
// is what the clone path uses.
func (s *Service) Create(ctx context.Context, input CreateInput) (View, error) {
	title := strings.TrimSpace(titleSanitizer.Sanitize(input.Title))
	if title == "" {
		return View{}, NewValidationError("title", "Title is required")
	}

	slug := input.Slug
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		return View{}, NewValidationError("slug", "Invalid slug format")
	}

	available, err := s.CheckAvailability(ctx, slug, 0)
	if err != nil {
		return View{}, err
	}
	if !available {
		return View{}, NewSlugConflict(slug)
	}

	now := time.Now()
	var created store.Menu
	err = s.withTx(ctx, func(q *store.Queries) error {
		var err error
		created, err = q.CreateMenu(ctx, store.CreateMenuParams{
			Title:       title,
			Slug:        slug,
			ScheduledAt: nullTimeFromPtr(input.ScheduledAt),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("creating menu: %w", err)
		}
		if len(input.Items) > 0 {
			return reconcileItems(ctx, q, created.ID, nil, sanitizeItems(input.Items), now)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.invalidate(ctx)
	s.dispatch(ctx, EventMenuCreated, created)
	return s.FindOne(ctx, created.ID)
}

// Update applies scalar changes and, when an item set is submitted,
// reconciles it against the stored one inside the same transaction.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (View, error) {
	if input.Empty() {
		return View{}, NewValidationError("data", "Update payload is empty")
	}

	existing, err := s.queries.GetMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return View{}, ErrMenuNotFound
		}
		return View{}, fmt.Errorf("fetching menu %d: %w", id, err)
	}

	title := existing.Title
	if input.Title != nil {
		title = strings.TrimSpace(titleSanitizer.Sanitize(*input.Title))
		if title == "" {
			return View{}, NewValidationError("title", "Title is required")
		}
	}

	slug := existing.Slug
	if input.Slug != nil {
		slug = *input.Slug
		if !util.IsValidSlug(slug) {
			return View{}, NewValidationError("slug", "Invalid slug format")
		}
	}

	available, err := s.CheckAvailability(ctx, slug, id)
	if err != nil {
		return View{}, err
	}
	if !available {
		return View{}, NewSlugConflict(slug)
	}

	prev, err := s.queries.ListMenuItems(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("listing items of menu %d: %w", id, err)
	}

	scheduledAt := existing.ScheduledAt
	if input.ScheduledAt != nil {
		scheduledAt = sql.NullTime{Time: *input.ScheduledAt, Valid: true}
	}

	now := time.Now()
	err = s.withTx(ctx, func(q *store.Queries) error {
		if input.Items != nil {
			if err := reconcileItems(ctx, q, id, prev, sanitizeItems(*input.Items), now); err != nil {
				return err
			}
		}
		_, err := q.UpdateMenu(ctx, store.UpdateMenuParams{
			ID:          id,
			Title:       title,
			Slug:        slug,
			PublishedAt: existing.PublishedAt,
			ScheduledAt: scheduledAt,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("updating menu %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.invalidate(ctx)
	s.dispatch(ctx, EventMenuUpdated, store.Menu{ID: id, Title: title, Slug: slug})
	return s.FindOne(ctx, id)
}

// Delete removes a menu and all its items. Items go first, children
// before parents, so referential integrity holds at every step.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.queries.GetMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMenuNotFound
		}
		return fmt.Errorf("fetching menu %d: %w", id, err)
	}

	prev, err := s.queries.ListMenuItems(ctx, id)
	if err != nil {
		return fmt.Errorf("listing items of menu %d: %w", id, err)
	}

	err = s.withTx(ctx, func(q *store.Queries) error {
		// Reconciling against an empty submission deletes every item.
		if err := reconcileItems(ctx, q, id, prev, nil, time.Now()); err != nil {
			return err
		}
		if err := q.DeleteMenu(ctx, id); err != nil {
			return fmt.Errorf("deleting menu %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.dispatch(ctx, EventMenuDeleted, existing)
	return nil
}

// buildView loads and populates a menu's items.
func (s *Service) buildView(ctx context.Context, m store.Menu) (View, error) {
	rows, err := s.queries.ListMenuItems(ctx, m.ID)
	if err != nil {
		return View{}, fmt.Errorf("listing items of menu %d: %w", m.ID, err)
	}
	items, err := s.populateItems(ctx, s.queries, rows)
	if err != nil {
		return View{}, err
	}
	return View{Summary: summaryFromStore(m), Items: items}, nil
}

// withTx runs fn inside a transaction.
func (s *Service) withTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(s.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.menuCache != nil {
		s.menuCache.Invalidate(ctx)
	}
}

func (s *Service) dispatch(ctx context.Context, eventType string, m store.Menu) {
	if s.events == nil {
		return
	}
	_ = s.events.DispatchEvent(ctx, eventType, EventData{ID: m.ID, Title: m.Title, Slug: m.Slug})
}

// sanitizeItems cleans user-supplied scalar fields and normalizes link
// targets before reconciliation.
func sanitizeItems(items []ItemInput) []ItemInput {
	out := make([]ItemInput, len(items))
	for i, in := range items {
		in.Title = strings.TrimSpace(titleSanitizer.Sanitize(in.Title))
		in.CSSClass = strings.TrimSpace(titleSanitizer.Sanitize(in.CSSClass))
		if in.Target != "" && !model.IsValidTarget(in.Target) {
			in.Target = model.TargetSelf
		}
		out[i] = in
	}
	return out
}

func nullTimeFromPtr(t *time.Time) sql.NullTime {
	if t != nil {
		return sql.NullTime{Time: *t, Valid: true}
	}
	return sql.NullTime{}
}
