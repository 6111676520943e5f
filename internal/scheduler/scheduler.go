// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler publishes menus whose scheduled time has elapsed.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/contentforge/menus/internal/menu"
	"github.com/contentforge/menus/internal/store"
)

// Invalidator evicts cached menus after a publish changes their state.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Scheduler runs the scheduled-publishing job.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
	cache  Invalidator
	events menu.EventSink
}

// New creates a scheduler. cache and events may be nil.
func New(db *sql.DB, logger *slog.Logger, cache Invalidator, events menu.EventSink) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
		cache:  cache,
		events: events,
	}
}

// Start registers the publishing job to run every minute and starts the
// cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.ProcessDueMenus(context.Background()); err != nil {
			s.logger.Error("failed to process scheduled menus", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// ProcessDueMenus publishes every menu whose scheduled time has passed.
func (s *Scheduler) ProcessDueMenus(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now()

	due, err := queries.ListScheduledMenusDue(ctx, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	s.logger.Info("processing scheduled menus", "count", len(due))

	published := 0
	for _, m := range due {
		err := queries.PublishMenu(ctx, store.PublishMenuParams{
			ID:          m.ID,
			PublishedAt: now,
			UpdatedAt:   now,
		})
		if err != nil {
			s.logger.Error("failed to publish scheduled menu",
				"menu_id", m.ID,
				"menu_title", m.Title,
				"error", err,
			)
			continue
		}
		published++

		s.logger.Info("published scheduled menu",
			"menu_id", m.ID,
			"menu_slug", m.Slug,
			"scheduled_at", m.ScheduledAt.Time,
		)
		if s.events != nil {
			_ = s.events.DispatchEvent(ctx, menu.EventMenuPublished, menu.EventData{
				ID:    m.ID,
				Title: m.Title,
				Slug:  m.Slug,
			})
		}
	}

	if published > 0 && s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
