// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package layout describes which fields of a menu item are displayed
// and resolves, from that description, which relation and media fields
// must be eagerly fetched alongside an item and to what depth.
package layout

import (
	"fmt"
	"sort"
)

// Field input types.
const (
	TypePlain    = "plain"
	TypeMedia    = "media"
	TypeRelation = "relation"
)

// MenuItemLayout is the layout name used for menu items.
const MenuItemLayout = "menuItem"

// Field describes one input field of a layout section.
type Field struct {
	Name   string
	Type   string
	Target string // type id of the related entity, relation fields only
}

// Config maps layout names to display sections, each holding an ordered
// list of input field definitions.
type Config map[string]map[string][]Field

// Attribute describes one attribute of a registered entity type.
type Attribute struct {
	Type   string
	Target string
}

// Registry resolves entity type ids to their attribute schemas. It is
// consulted when a relation field needs one level of nested population.
type Registry interface {
	// AttributesOf returns the attribute schema of the given type id.
	// The second return value is false when the type is unknown.
	AttributesOf(typeID string) (map[string]Attribute, bool)
}

// StaticRegistry is a Registry backed by a fixed in-memory schema map.
type StaticRegistry map[string]map[string]Attribute

// AttributesOf implements Registry.
func (r StaticRegistry) AttributesOf(typeID string) (map[string]Attribute, bool) {
	attrs, ok := r[typeID]
	return attrs, ok
}

// DefaultConfig returns the built-in layout configuration.
func DefaultConfig() Config {
	return Config{
		MenuItemLayout: {
			"link": {
				{Name: "title", Type: TypePlain},
				{Name: "url", Type: TypePlain},
				{Name: "target", Type: TypePlain},
				{Name: "cssClass", Type: TypePlain},
			},
			"references": {
				{Name: "page", Type: TypeRelation, Target: "page"},
				{Name: "image", Type: TypeMedia},
			},
		},
	}
}

// DefaultRegistry returns the schema registry for the built-in entity types.
func DefaultRegistry() StaticRegistry {
	return StaticRegistry{
		"page": {
			"title": {Type: TypePlain},
			"slug":  {Type: TypePlain},
			"cover": {Type: TypeMedia},
		},
		"media": {
			"fileName": {Type: TypePlain},
			"url":      {Type: TypePlain},
			"mime":     {Type: TypePlain},
		},
	}
}

// fields flattens a layout's sections into a single ordered field list.
// Sections are walked in name order so resolution is deterministic.
func (c Config) fields(layoutName string) ([]Field, error) {
	sections, ok := c[layoutName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layoutName)
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []Field
	for _, name := range names {
		fields = append(fields, sections[name]...)
	}
	return fields, nil
}
