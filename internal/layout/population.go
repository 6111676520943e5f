// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownLayout is returned when a layout name is not configured.
var ErrUnknownLayout = errors.New("unknown layout")

// Population describes how a single relational or media field is
// fetched. An empty Populate map means a shallow fetch; a non-empty map
// recurses one level into the listed sub-fields of the target entity.
type Population struct {
	Populate map[string]bool
}

// Shallow reports whether the field is fetched without further expansion.
func (p Population) Shallow() bool {
	return len(p.Populate) == 0
}

// MarshalJSON renders the population entry as either the literal true
// (shallow) or {"populate": {...}} (one level deep).
func (p Population) MarshalJSON() ([]byte, error) {
	if p.Shallow() {
		return json.Marshal(true)
	}
	return json.Marshal(struct {
		Populate map[string]bool `json:"populate"`
	}{Populate: p.Populate})
}

// Spec maps field names to their population instructions. Scalar fields
// are absent: they are fetched by default.
type Spec map[string]Population

// Fields returns the populated field names in sorted order.
func (s Spec) Fields() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver computes population specs from a layout configuration and a
// schema registry. Specs are memoized per layout name; the resolver is
// safe for concurrent use since a computed spec is read-only.
type Resolver struct {
	config   Config
	registry Registry

	mu   sync.RWMutex
	memo map[string]Spec
}

// NewResolver creates a Resolver over the given configuration and registry.
func NewResolver(config Config, registry Registry) *Resolver {
	return &Resolver{
		config:   config,
		registry: registry,
		memo:     make(map[string]Spec),
	}
}

// Resolve returns the population spec for the named layout.
//
// Media fields populate shallowly. Relation fields inspect the target
// entity's schema: when the target itself has media or relation
// attributes, those are populated one level deep; otherwise the
// relation is fetched as-is. A relation whose target schema cannot be
// resolved degrades to a shallow fetch rather than failing the read.
func (r *Resolver) Resolve(layoutName string) (Spec, error) {
	r.mu.RLock()
	if spec, ok := r.memo[layoutName]; ok {
		r.mu.RUnlock()
		return spec, nil
	}
	r.mu.RUnlock()

	fields, err := r.config.fields(layoutName)
	if err != nil {
		return nil, err
	}

	spec := make(Spec)
	for _, field := range fields {
		switch field.Type {
		case TypeMedia:
			spec[field.Name] = Population{}
		case TypeRelation:
			spec[field.Name] = r.resolveRelation(field)
		}
	}

	r.mu.Lock()
	r.memo[layoutName] = spec
	r.mu.Unlock()

	return spec, nil
}

// resolveRelation decides how deep a relation field is populated.
func (r *Resolver) resolveRelation(field Field) Population {
	attrs, ok := r.registry.AttributesOf(field.Target)
	if !ok {
		// Target schema missing: fetch the relation without expansion.
		return Population{}
	}

	sub := make(map[string]bool)
	for name, attr := range attrs {
		if attr.Type == TypeMedia || attr.Type == TypeRelation {
			sub[name] = true
		}
	}
	if len(sub) == 0 {
		return Population{}
	}
	return Population{Populate: sub}
}
