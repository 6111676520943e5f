// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/contentforge/menus/internal/store"
	"github.com/contentforge/menus/internal/util"
)

// deletionClosure computes the set of stored item ids to delete: every
// previous item absent from the submission, expanded to the full
// descendant closure. A descendant of a removed parent is deleted even
// when it appears in the submission itself — the parent's removal is
// authoritative, otherwise the surviving child would keep a dangling
// parent reference.
func deletionClosure(prev []store.MenuItem, submitted []ItemInput) map[int64]bool {
	submittedIDs := make(map[int64]bool)
	for _, in := range submitted {
		if in.ID != nil {
			submittedIDs[*in.ID] = true
		}
	}

	deleted := make(map[int64]bool)
	var explicit []int64
	for _, item := range prev {
		if !submittedIDs[item.ID] {
			deleted[item.ID] = true
			explicit = append(explicit, item.ID)
		}
	}

	// Expand over the stored parent links, children of deleted parents
	// first. The visited check also terminates on malformed cyclic data.
	children := make(map[int64][]int64)
	for _, item := range prev {
		if item.ParentID.Valid {
			children[item.ParentID.Int64] = append(children[item.ParentID.Int64], item.ID)
		}
	}

	queue := explicit
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if !deleted[child] {
				deleted[child] = true
				queue = append(queue, child)
			}
		}
	}

	return deleted
}

// upsertOp is one planned create or update. parentOp indexes another op
// when the parent is itself part of the submission; -1 means the parent
// is an already-stored item (parentID) or absent (root).
type upsertOp struct {
	input      ItemInput
	orderIndex int64
	parentID   sql.NullInt64
	parentOp   int
}

// planUpserts validates the submitted items against the previous set
// and assigns sibling order from submission order. Items whose id falls
// inside the deletion closure are dropped: their removal was decided by
// an ancestor. Parent references must stay within the menu.
func planUpserts(prev []store.MenuItem, submitted []ItemInput, deleted map[int64]bool) ([]upsertOp, error) {
	prevIDs := make(map[int64]bool, len(prev))
	for _, item := range prev {
		prevIDs[item.ID] = true
	}

	// Map submitted position -> op position, skipping dropped items.
	opIndex := make(map[int]int, len(submitted))
	var ops []upsertOp
	for i, in := range submitted {
		if in.ID != nil {
			if !prevIDs[*in.ID] {
				return nil, NewValidationError("items",
					fmt.Sprintf("item %d does not belong to this menu", *in.ID))
			}
			if deleted[*in.ID] {
				continue
			}
		}
		opIndex[i] = len(ops)
		ops = append(ops, upsertOp{input: in, parentOp: -1})
	}

	// Sibling order follows submission order within each parent bucket.
	type bucketKey struct {
		id  int64
		op  int
		raw bool // true when keyed by op (new parent)
	}
	counters := make(map[bucketKey]int64)

	for i := range ops {
		in := ops[i].input

		var key bucketKey
		switch {
		case in.ParentIndex != nil:
			target, ok := opIndex[*in.ParentIndex]
			if !ok || target == i {
				return nil, NewValidationError("items",
					fmt.Sprintf("item %d references an invalid parent position", i))
			}
			ops[i].parentOp = target
			key = bucketKey{op: target, raw: true}
		case in.ParentID != nil:
			if !prevIDs[*in.ParentID] || deleted[*in.ParentID] {
				return nil, NewValidationError("items",
					fmt.Sprintf("parent %d does not belong to this menu", *in.ParentID))
			}
			ops[i].parentID = util.NullInt64FromPtr(in.ParentID)
			key = bucketKey{id: *in.ParentID}
		default:
			key = bucketKey{}
		}

		ops[i].orderIndex = counters[key]
		counters[key]++
	}

	// The submission replaces the item set wholesale, so every
	// surviving item is an op. Resolving parentID references back to
	// their op gives the complete final parent graph; walking it
	// exposes any cycle, including ones mixing new and re-parented
	// existing items.
	opOfID := make(map[int64]int, len(ops))
	for i, op := range ops {
		if op.input.ID != nil {
			opOfID[*op.input.ID] = i
		}
	}
	parentEdge := make([]int, len(ops))
	for i, op := range ops {
		parentEdge[i] = op.parentOp
		if op.parentOp == -1 && op.parentID.Valid {
			if p, ok := opOfID[op.parentID.Int64]; ok {
				parentEdge[i] = p
			}
		}
	}
	for i := range ops {
		seen := 0
		at := i
		for parentEdge[at] != -1 {
			at = parentEdge[at]
			seen++
			if seen > len(ops) {
				return nil, NewValidationError("items", "parent references form a cycle")
			}
		}
	}

	return ops, nil
}

// reconcileItems applies a submitted item set against the stored one:
// the deletion closure is removed first (children before parents), then
// creations and updates run in an order where new parents precede their
// children. The caller wraps this in a transaction so a failure partway
// through leaves nothing half-applied.
func reconcileItems(ctx context.Context, q *store.Queries, menuID int64, prev []store.MenuItem, submitted []ItemInput, now time.Time) error {
	deleted := deletionClosure(prev, submitted)
	ops, err := planUpserts(prev, submitted, deleted)
	if err != nil {
		return err
	}

	// Delete deepest-first so no row ever points at a removed parent.
	depth := itemDepths(prev)
	deleteIDs := make([]int64, 0, len(deleted))
	for id := range deleted {
		deleteIDs = append(deleteIDs, id)
	}
	sort.Slice(deleteIDs, func(i, j int) bool {
		if depth[deleteIDs[i]] != depth[deleteIDs[j]] {
			return depth[deleteIDs[i]] > depth[deleteIDs[j]]
		}
		return deleteIDs[i] < deleteIDs[j]
	})
	for _, id := range deleteIDs {
		if err := q.DeleteMenuItem(ctx, id); err != nil {
			return fmt.Errorf("deleting item %d: %w", id, err)
		}
	}

	// Apply upserts; ops whose parent is a new item wait until the
	// parent has an id.
	createdID := make([]int64, len(ops))
	done := make([]bool, len(ops))
	remaining := len(ops)
	for remaining > 0 {
		progressed := false
		for i := range ops {
			if done[i] {
				continue
			}
			parentID := ops[i].parentID
			if ops[i].parentOp != -1 {
				if !done[ops[i].parentOp] {
					continue
				}
				parentID = sql.NullInt64{Int64: createdID[ops[i].parentOp], Valid: true}
			}

			id, err := applyUpsert(ctx, q, menuID, ops[i], parentID, now)
			if err != nil {
				return err
			}
			createdID[i] = id
			done[i] = true
			remaining--
			progressed = true
		}
		if !progressed {
			return NewValidationError("items", "parent references form a cycle")
		}
	}

	return nil
}

func applyUpsert(ctx context.Context, q *store.Queries, menuID int64, op upsertOp, parentID sql.NullInt64, now time.Time) (int64, error) {
	in := op.input
	target := in.Target
	if target == "" {
		target = "_self"
	}

	if in.ID != nil {
		item, err := q.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
			ID:         *in.ID,
			ParentID:   parentID,
			Title:      in.Title,
			Url:        in.URL,
			Target:     target,
			CssClass:   in.CSSClass,
			PageID:     util.NullInt64FromPtr(in.PageID),
			MediaID:    util.NullInt64FromPtr(in.MediaID),
			OrderIndex: op.orderIndex,
			UpdatedAt:  now,
		})
		if err != nil {
			return 0, fmt.Errorf("updating item %d: %w", *in.ID, err)
		}
		return item.ID, nil
	}

	item, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:     menuID,
		ParentID:   parentID,
		Title:      in.Title,
		Url:        in.URL,
		Target:     target,
		CssClass:   in.CSSClass,
		PageID:     util.NullInt64FromPtr(in.PageID),
		MediaID:    util.NullInt64FromPtr(in.MediaID),
		OrderIndex: op.orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}
	return item.ID, nil
}

// itemDepths returns each stored item's distance from its root.
func itemDepths(items []store.MenuItem) map[int64]int {
	parent := make(map[int64]int64, len(items))
	for _, item := range items {
		if item.ParentID.Valid {
			parent[item.ID] = item.ParentID.Int64
		}
	}

	depths := make(map[int64]int, len(items))
	for _, item := range items {
		d := 0
		at := item.ID
		for {
			p, ok := parent[at]
			if !ok || d > len(items) {
				break
			}
			at = p
			d++
		}
		depths[item.ID] = d
	}
	return depths
}
