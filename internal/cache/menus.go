// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/contentforge/menus/internal/store"
)

// MenuWithItems is the cached representation of a menu: the record plus
// its flat item rows. Only raw rows are cached; populated views and
// nested trees are built fresh on every read.
type MenuWithItems struct {
	Menu  store.Menu
	Items []store.MenuItem
}

// MenuCache caches flat menus by slug on top of a Cacher backend, so it
// works identically over memory and Redis. Any menu write invalidates it.
type MenuCache struct {
	cache Cacher
	ttl   time.Duration
}

// NewMenuCache creates a menu cache over the given backend.
func NewMenuCache(cache Cacher, ttl time.Duration) *MenuCache {
	return &MenuCache{cache: cache, ttl: ttl}
}

func menuKey(slug string) string {
	return "menu:slug:" + slug
}

// Get retrieves a menu by slug. Returns (nil, nil) on a cache miss.
func (c *MenuCache) Get(ctx context.Context, slug string) (*MenuWithItems, error) {
	data, err := c.cache.Get(ctx, menuKey(slug))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	var cached MenuWithItems
	if err := json.Unmarshal(data, &cached); err != nil {
		// A corrupt entry behaves like a miss; the caller refreshes it.
		_ = c.cache.Delete(ctx, menuKey(slug))
		return nil, nil
	}
	return &cached, nil
}

// Set stores a menu with its items under its slug.
func (c *MenuCache) Set(ctx context.Context, menu store.Menu, items []store.MenuItem) error {
	data, err := json.Marshal(MenuWithItems{Menu: menu, Items: items})
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, menuKey(menu.Slug), data, c.ttl)
}

// Invalidate clears all cached menus. Called on every menu mutation;
// slug changes and re-parenting make per-slug eviction too error-prone
// to be worth the precision.
func (c *MenuCache) Invalidate(ctx context.Context) {
	_ = c.cache.Clear(ctx)
}
