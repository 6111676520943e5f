// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/contentforge/menus/internal/cache"
	"github.com/contentforge/menus/internal/layout"
	"github.com/contentforge/menus/internal/store"
	"github.com/contentforge/menus/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *sql.DB, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	resolver := layout.NewResolver(layout.DefaultConfig(), layout.DefaultRegistry())
	return NewService(db, resolver, nil, nil), db, cleanup
}

func TestService_CreateAndFindOne(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{Title: "Main Navigation"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Title != "Main Navigation" {
		t.Errorf("Title = %q", view.Title)
	}
	if view.Slug != "main-navigation" {
		t.Errorf("Slug = %q, want main-navigation", view.Slug)
	}

	got, err := svc.FindOne(ctx, view.ID)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.ID != view.ID || got.Slug != view.Slug {
		t.Errorf("FindOne returned %+v", got.Summary)
	}
}

func TestService_CreateWithItems(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Title: "Header",
		Items: []ItemInput{
			{Title: "Home", URL: "/"},
			{Title: "Docs", URL: "/docs"},
			{Title: "Guides", URL: "/docs/guides", ParentIndex: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(view.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(view.Items))
	}

	nested := Nest(view, false)
	if len(nested.Items) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nested.Items))
	}
	if nested.Items[1].Title != "Docs" || len(nested.Items[1].Children) != 1 {
		t.Errorf("Docs should have one child, got %+v", nested.Items[1])
	}
	if nested.Items[1].Children[0].Title != "Guides" {
		t.Errorf("child = %q, want Guides", nested.Items[1].Children[0].Title)
	}
}

func TestService_CreateSlugConflict(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Title: "Footer"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := svc.Create(ctx, CreateInput{Title: "Footer"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Message != "The slug footer is already taken" {
		t.Errorf("Message = %q", conflict.Message)
	}
}

func TestService_CreateTitleRequired(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.Create(context.Background(), CreateInput{Title: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_CreateSanitizesTitle(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	view, err := svc.Create(context.Background(), CreateInput{
		Title: "Sidebar <script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Title != "Sidebar" {
		t.Errorf("Title = %q, want markup stripped", view.Title)
	}
}

func TestService_UpdateEmptyPayload(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.Update(context.Background(), 1, UpdateInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_UpdateKeepOwnSlug(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{Title: "Primary"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Re-submitting the menu's own slug is not a conflict.
	slug := view.Slug
	title := "Primary Nav"
	updated, err := svc.Update(ctx, view.ID, UpdateInput{Title: &title, Slug: &slug})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Primary Nav" || updated.Slug != slug {
		t.Errorf("updated = %+v", updated.Summary)
	}
}

func TestService_UpdateReconcilesItems(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Title: "Nav",
		Items: []ItemInput{
			{Title: "Home", URL: "/"},
			{Title: "About", URL: "/about"},
			{Title: "Team", URL: "/about/team"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	home := view.Items[0]
	about := view.Items[1]

	// Drop Team, keep Home and About, re-parent About under Home, add one.
	items := []ItemInput{
		{ID: &home.ID, Title: "Home", URL: "/"},
		{ID: &about.ID, Title: "About", URL: "/about", ParentID: &home.ID},
		{Title: "Contact", URL: "/contact"},
	}
	updated, err := svc.Update(ctx, view.ID, UpdateInput{Items: &items})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Items) != 3 {
		t.Fatalf("expected 3 items after reconcile, got %d", len(updated.Items))
	}

	nested := Nest(updated, false)
	if len(nested.Items) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nested.Items))
	}
	if nested.Items[0].Title != "Home" || len(nested.Items[0].Children) != 1 {
		t.Errorf("Home should have About as child, got %+v", nested.Items[0])
	}
	for _, item := range updated.Items {
		if item.Title == "Team" {
			t.Error("Team should have been deleted")
		}
	}
}

func TestService_UpdateRemovedParentTakesDescendants(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Title: "Tree",
		Items: []ItemInput{
			{Title: "Parent"},
			{Title: "Child", ParentIndex: intPtr(0)},
			{Title: "Grandchild", ParentIndex: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var child Item
	for _, it := range view.Items {
		if it.Title == "Child" {
			child = it
		}
	}

	// Omit Parent but resubmit Child: the closure still deletes both.
	items := []ItemInput{{ID: &child.ID, Title: "Child"}}
	updated, err := svc.Update(ctx, view.ID, UpdateInput{Items: &items})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Errorf("expected empty item set, got %d items", len(updated.Items))
	}
}

func TestService_Delete(t *testing.T) {
	svc, db, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Title: "Doomed",
		Items: []ItemInput{
			{Title: "Root"},
			{Title: "Leaf", ParentIndex: intPtr(0)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, view.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.FindOne(ctx, view.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("FindOne after delete = %v, want ErrMenuNotFound", err)
	}

	count, err := store.New(db).CountMenuItems(ctx, view.ID)
	if err != nil {
		t.Fatalf("CountMenuItems: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 items after delete, got %d", count)
	}
}

func TestService_DeleteNotFound(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	if err := svc.Delete(context.Background(), 9999); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("Delete = %v, want ErrMenuNotFound", err)
	}
}

func TestService_CheckAvailability(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{Title: "Main"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	available, err := svc.CheckAvailability(ctx, "main", 0)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if available {
		t.Error("taken slug reported as available")
	}

	available, err = svc.CheckAvailability(ctx, "main", view.ID)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !available {
		t.Error("own slug should be available when excluded")
	}

	available, err = svc.CheckAvailability(ctx, "free-slug", 0)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !available {
		t.Error("free slug reported as taken")
	}
}

func TestService_GetBySlugUsesCache(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	menuCache := cache.NewMenuCache(cache.NewSimpleMemoryCache(time.Minute), time.Minute)
	resolver := layout.NewResolver(layout.DefaultConfig(), layout.DefaultRegistry())
	svc := NewService(db, resolver, menuCache, nil)

	view, err := svc.Create(ctx, CreateInput{
		Title: "Cached",
		Items: []ItemInput{{Title: "Home", URL: "/"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// First read warms the cache.
	first, err := svc.GetBySlug(ctx, view.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}

	cached, err := menuCache.Get(ctx, view.Slug)
	if err != nil || cached == nil {
		t.Fatalf("cache should hold the menu after a read: %v %v", cached, err)
	}

	second, err := svc.GetBySlug(ctx, view.Slug)
	if err != nil {
		t.Fatalf("GetBySlug (cached): %v", err)
	}
	if second.ID != first.ID || len(second.Items) != len(first.Items) {
		t.Errorf("cached read differs: %+v vs %+v", second.Summary, first.Summary)
	}

	// A write invalidates the cache.
	title := "Cached v2"
	if _, err := svc.Update(ctx, view.ID, UpdateInput{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	cached, err = menuCache.Get(ctx, view.Slug)
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if cached != nil {
		t.Error("cache should be empty after a write")
	}
}

func TestService_PopulatesReferences(t *testing.T) {
	svc, db, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)
	now := time.Now()

	media, err := q.CreateMedia(ctx, store.CreateMediaParams{
		FileName:  "hero.png",
		Url:       "/uploads/hero.png",
		Mime:      "image/png",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	page, err := q.CreatePage(ctx, store.CreatePageParams{
		Title:        "Landing",
		Slug:         "landing",
		CoverMediaID: sql.NullInt64{Int64: media.ID, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	view, err := svc.Create(ctx, CreateInput{
		Title: "Linked",
		Items: []ItemInput{
			{Title: "Landing", PageID: &page.ID, MediaID: &media.ID},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(view.Items))
	}

	item := view.Items[0]
	if item.Page == nil || item.Page.Slug != "landing" {
		t.Fatalf("page not populated: %+v", item.Page)
	}
	if item.Page.Cover == nil || item.Page.Cover.FileName != "hero.png" {
		t.Errorf("page cover not populated one level deep: %+v", item.Page.Cover)
	}
	if item.Image == nil || item.Image.URL != "/uploads/hero.png" {
		t.Errorf("image not populated: %+v", item.Image)
	}
}

func TestService_Find(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := svc.Create(ctx, CreateInput{Title: title}); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	views, total, err := svc.Find(ctx, FindParams{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(views) != 2 {
		t.Errorf("page size = %d, want 2", len(views))
	}
	if views[0].Title != "Alpha" || views[1].Title != "Beta" {
		t.Errorf("ordering = [%s, %s]", views[0].Title, views[1].Title)
	}
}
