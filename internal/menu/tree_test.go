// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "testing"

func ptr(v int64) *int64 { return &v }

func TestBuildTree_Basic(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "Home", OrderIndex: 0},
		{ID: 2, Title: "About", ParentID: ptr(1), OrderIndex: 0},
		{ID: 3, Title: "Blog", OrderIndex: 1},
	}

	nodes := BuildTree(items, false)

	if len(nodes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nodes))
	}
	if nodes[0].ID != 1 || nodes[1].ID != 3 {
		t.Errorf("root order = [%d, %d], want [1, 3]", nodes[0].ID, nodes[1].ID)
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].ID != 2 {
		t.Errorf("node 1 children = %+v, want [2]", nodes[0].Children)
	}
	if len(nodes[1].Children) != 0 {
		t.Errorf("node 3 should have no children")
	}
}

func TestBuildTree_OrderingWithinParent(t *testing.T) {
	items := []Item{
		{ID: 5, Title: "c", OrderIndex: 2},
		{ID: 3, Title: "a", OrderIndex: 0},
		{ID: 4, Title: "b", OrderIndex: 1},
	}

	nodes := BuildTree(items, false)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(nodes))
	}
	for i, want := range []int64{3, 4, 5} {
		if nodes[i].ID != want {
			t.Errorf("roots[%d].ID = %d, want %d", i, nodes[i].ID, want)
		}
	}
}

func TestBuildTree_StableOnEqualOrder(t *testing.T) {
	// Equal OrderIndex keeps collection order.
	items := []Item{
		{ID: 10, OrderIndex: 0},
		{ID: 11, OrderIndex: 0},
		{ID: 12, OrderIndex: 0},
	}

	nodes := BuildTree(items, false)
	for i, want := range []int64{10, 11, 12} {
		if nodes[i].ID != want {
			t.Errorf("roots[%d].ID = %d, want %d", i, nodes[i].ID, want)
		}
	}
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	items := []Item{
		{ID: 1, OrderIndex: 0},
		{ID: 2, ParentID: ptr(99), OrderIndex: 0},
	}

	nodes := BuildTree(items, false)
	if len(nodes) != 2 {
		t.Fatalf("orphan should be rooted, got %d roots", len(nodes))
	}
}

func TestBuildTree_WithParentRef(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "Products", OrderIndex: 0},
		{ID: 2, Title: "Hardware", ParentID: ptr(1), OrderIndex: 0},
	}

	nodes := BuildTree(items, true)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 root, got %d", len(nodes))
	}
	child := nodes[0].Children[0]
	if child.Parent == nil {
		t.Fatal("child should carry a parent ref")
	}
	if child.Parent.ID != 1 || child.Parent.Title != "Products" {
		t.Errorf("parent ref = %+v, want {1 Products}", child.Parent)
	}
	if nodes[0].Parent != nil {
		t.Error("root should not carry a parent ref")
	}
}

func TestBuildTree_DeepNesting(t *testing.T) {
	items := []Item{
		{ID: 1, OrderIndex: 0},
		{ID: 2, ParentID: ptr(1), OrderIndex: 0},
		{ID: 3, ParentID: ptr(2), OrderIndex: 0},
		{ID: 4, ParentID: ptr(3), OrderIndex: 0},
	}

	nodes := BuildTree(items, false)
	depth := 0
	for cur := nodes; len(cur) > 0; cur = cur[0].Children {
		depth++
	}
	if depth != 4 {
		t.Errorf("tree depth = %d, want 4", depth)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	if nodes := BuildTree(nil, false); len(nodes) != 0 {
		t.Errorf("BuildTree(nil) = %v, want empty", nodes)
	}
}

func TestFlattenTree_RoundTrip(t *testing.T) {
	items := []Item{
		{ID: 1, OrderIndex: 0},
		{ID: 2, ParentID: ptr(1), OrderIndex: 0},
		{ID: 5, ParentID: ptr(1), OrderIndex: 1},
		{ID: 3, OrderIndex: 1},
		{ID: 4, ParentID: ptr(3), OrderIndex: 0},
	}

	flat := FlattenTree(BuildTree(items, false))
	if len(flat) != len(items) {
		t.Fatalf("round trip lost items: %d vs %d", len(flat), len(items))
	}

	// Pre-order: parent before its descendants.
	want := []int64{1, 2, 5, 3, 4}
	for i, id := range want {
		if flat[i].ID != id {
			t.Errorf("flat[%d].ID = %d, want %d", i, flat[i].ID, id)
		}
	}
}
