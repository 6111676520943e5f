// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "sort"

// rootBucket is the sentinel parent key for items without a parent.
// Item ids start at 1, so 0 never collides with a real parent.
const rootBucket int64 = 0

// BuildTree converts a flat item collection into a nested tree. Items
// are grouped by parent id; children are ordered by OrderIndex
// ascending with the original collection order as tie-break. An item
// whose parent id does not appear in the collection is treated as a
// root rather than an error. When withParent is true, each non-root
// node carries a minimal parent summary resolved from the same
// collection; no additional fetch happens here.
func BuildTree(items []Item, withParent bool) []Node {
	byID := make(map[int64]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// Bucket by parent, preserving input order within each bucket.
	buckets := make(map[int64][]Item)
	for _, item := range items {
		key := rootBucket
		if item.ParentID != nil {
			if _, ok := byID[*item.ParentID]; ok {
				key = *item.ParentID
			}
		}
		buckets[key] = append(buckets[key], item)
	}

	for key := range buckets {
		bucket := buckets[key]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].OrderIndex < bucket[j].OrderIndex
		})
	}

	var build func(parent int64) []Node
	build = func(parent int64) []Node {
		bucket := buckets[parent]
		nodes := make([]Node, 0, len(bucket))
		for _, item := range bucket {
			node := Node{
				Item:     item,
				Children: build(item.ID),
			}
			if withParent && item.ParentID != nil {
				if p, ok := byID[*item.ParentID]; ok {
					node.Parent = &ParentRef{ID: p.ID, Title: p.Title}
				}
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	return build(rootBucket)
}

// FlattenTree is the inverse of BuildTree: a pre-order traversal
// yielding the flat item collection.
func FlattenTree(nodes []Node) []Item {
	var items []Item
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, node := range nodes {
			items = append(items, node.Item)
			walk(node.Children)
		}
	}
	walk(nodes)
	return items
}
