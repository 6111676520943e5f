package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultMenuSlug is the slug of the menu created on first start.
const DefaultMenuSlug = "main"

// Seed creates initial data in the database. It is idempotent: when the
// default menu already exists, nothing is written.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetMenuBySlug(ctx, DefaultMenuSlug)
	if err == nil {
		slog.Info("default menu already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for default menu: %w", err)
	}

	now := time.Now()
	menu, err := queries.CreateMenu(ctx, CreateMenuParams{
		Title:       "Main navigation",
		Slug:        DefaultMenuSlug,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("creating default menu: %w", err)
	}

	home, err := queries.CreateMenuItem(ctx, CreateMenuItemParams{
		MenuID:    menu.ID,
		Title:     "Home",
		Url:       "/",
		Target:    "_self",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating default menu item: %w", err)
	}

	slog.Info("created default menu", "id", menu.ID, "slug", menu.Slug, "root_item", home.ID)
	return nil
}
