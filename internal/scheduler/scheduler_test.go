// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/contentforge/menus/internal/store"
	"github.com/contentforge/menus/internal/testutil"
)

type stubSink struct {
	events []string
}

func (s *stubSink) DispatchEvent(_ context.Context, eventType string, _ any) error {
	s.events = append(s.events, eventType)
	return nil
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) Invalidate(context.Context) {
	s.calls++
}

func createScheduledMenu(t *testing.T, q *store.Queries, slug string, scheduledAt time.Time) store.Menu {
	t.Helper()
	now := time.Now()
	m, err := q.CreateMenu(context.Background(), store.CreateMenuParams{
		Title:       slug,
		Slug:        slug,
		ScheduledAt: sql.NullTime{Time: scheduledAt, Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	return m
}

func TestProcessDueMenus(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	due := createScheduledMenu(t, q, "due", time.Now().Add(-time.Hour))
	future := createScheduledMenu(t, q, "future", time.Now().Add(time.Hour))

	sink := &stubSink{}
	inv := &stubInvalidator{}
	s := New(db, testutil.TestLogger(), inv, sink)

	if err := s.ProcessDueMenus(ctx); err != nil {
		t.Fatalf("ProcessDueMenus: %v", err)
	}

	published, err := q.GetMenuByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetMenuByID: %v", err)
	}
	if !published.PublishedAt.Valid {
		t.Error("due menu should be published")
	}
	if published.ScheduledAt.Valid {
		t.Error("due menu should have scheduled_at cleared")
	}

	untouched, err := q.GetMenuByID(ctx, future.ID)
	if err != nil {
		t.Fatalf("GetMenuByID: %v", err)
	}
	if untouched.PublishedAt.Valid {
		t.Error("future menu must not be published")
	}

	if len(sink.events) != 1 || sink.events[0] != "menu.published" {
		t.Errorf("dispatched events = %v, want [menu.published]", sink.events)
	}
	if inv.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", inv.calls)
	}
}

func TestProcessDueMenus_NothingDue(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	createScheduledMenu(t, q, "future", time.Now().Add(time.Hour))

	sink := &stubSink{}
	inv := &stubInvalidator{}
	s := New(db, testutil.TestLogger(), inv, sink)

	if err := s.ProcessDueMenus(context.Background()); err != nil {
		t.Fatalf("ProcessDueMenus: %v", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("events dispatched with nothing due: %v", sink.events)
	}
	if inv.calls != 0 {
		t.Errorf("cache invalidated with nothing due: %d", inv.calls)
	}
}

func TestProcessDueMenus_NilCollaborators(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	createScheduledMenu(t, q, "due", time.Now().Add(-time.Minute))

	s := New(db, testutil.TestLogger(), nil, nil)
	if err := s.ProcessDueMenus(context.Background()); err != nil {
		t.Fatalf("ProcessDueMenus with nil cache/sink: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(db, testutil.TestLogger(), nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
