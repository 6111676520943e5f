// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestResolve_MenuItemLayout(t *testing.T) {
	r := NewResolver(DefaultConfig(), DefaultRegistry())

	spec, err := r.Resolve(MenuItemLayout)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Scalar fields are never in the spec.
	for _, name := range []string{"title", "url", "target", "cssClass"} {
		if _, ok := spec[name]; ok {
			t.Errorf("scalar field %q should not be populated", name)
		}
	}

	// Media fields populate shallowly.
	image, ok := spec["image"]
	if !ok {
		t.Fatal("image field missing from spec")
	}
	if !image.Shallow() {
		t.Errorf("image should be shallow, got %+v", image)
	}

	// The page relation carries its own media attribute one level deep.
	page, ok := spec["page"]
	if !ok {
		t.Fatal("page field missing from spec")
	}
	if !page.Populate["cover"] {
		t.Errorf("page population should include cover, got %+v", page.Populate)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(DefaultConfig(), DefaultRegistry())

	first, err := r.Resolve(MenuItemLayout)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Resolve(MenuItemLayout)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("spec size changed between calls: %d vs %d", len(again), len(first))
		}
		for name := range first {
			if _, ok := again[name]; !ok {
				t.Errorf("field %q disappeared on repeat resolution", name)
			}
		}
	}
}

func TestResolve_UnknownLayout(t *testing.T) {
	r := NewResolver(DefaultConfig(), DefaultRegistry())

	_, err := r.Resolve("nope")
	if !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Resolve(nope) error = %v, want ErrUnknownLayout", err)
	}
}

func TestResolve_UnknownTargetDegradesToShallow(t *testing.T) {
	cfg := Config{
		"custom": {
			"main": {
				{Name: "widget", Type: TypeRelation, Target: "widget"},
			},
		},
	}
	r := NewResolver(cfg, StaticRegistry{})

	spec, err := r.Resolve("custom")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	pop, ok := spec["widget"]
	if !ok {
		t.Fatal("widget field missing from spec")
	}
	if !pop.Shallow() {
		t.Errorf("unknown target should degrade to shallow, got %+v", pop)
	}
}

func TestResolve_RelationWithoutNestedRefs(t *testing.T) {
	cfg := Config{
		"custom": {
			"main": {
				{Name: "author", Type: TypeRelation, Target: "author"},
			},
		},
	}
	reg := StaticRegistry{
		"author": {
			"name":  {Type: TypePlain},
			"email": {Type: TypePlain},
		},
	}
	r := NewResolver(cfg, reg)

	spec, err := r.Resolve("custom")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pop := spec["author"]; !pop.Shallow() {
		t.Errorf("relation to scalar-only target should be shallow, got %+v", pop)
	}
}

func TestPopulation_MarshalJSON(t *testing.T) {
	shallow, err := json.Marshal(Population{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(shallow) != "true" {
		t.Errorf("shallow population = %s, want true", shallow)
	}

	deep, err := json.Marshal(Population{Populate: map[string]bool{"cover": true}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(deep) != `{"populate":{"cover":true}}` {
		t.Errorf("deep population = %s", deep)
	}
}

func TestSpec_JSONShape(t *testing.T) {
	r := NewResolver(DefaultConfig(), DefaultRegistry())
	spec, err := r.Resolve(MenuItemLayout)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if v, ok := decoded["image"].(bool); !ok || !v {
		t.Errorf("image should serialize as true, got %v", decoded["image"])
	}
	if _, ok := decoded["page"].(map[string]any); !ok {
		t.Errorf("page should serialize as an object, got %v", decoded["page"])
	}
}

func TestSpec_Fields(t *testing.T) {
	spec := Spec{
		"zeta":  {},
		"alpha": {},
	}
	fields := spec.Fields()
	if len(fields) != 2 || fields[0] != "alpha" || fields[1] != "zeta" {
		t.Errorf("Fields() = %v, want sorted names", fields)
	}
}
