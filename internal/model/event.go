// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines shared domain constants and helpers.
package model

// Event log levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log sources.
const (
	EventSourceSystem    = "system"
	EventSourceMenus     = "menus"
	EventSourceScheduler = "scheduler"
	EventSourceWebhooks  = "webhooks"
)
