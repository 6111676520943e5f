// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
)

func TestNullInt64FromPtr(t *testing.T) {
	v := int64(42)
	if got := NullInt64FromPtr(&v); !got.Valid || got.Int64 != 42 {
		t.Errorf("NullInt64FromPtr(&42) = %+v", got)
	}
	if got := NullInt64FromPtr(nil); got.Valid {
		t.Errorf("NullInt64FromPtr(nil) = %+v, want invalid", got)
	}
}

func TestPtrFromNullInt64(t *testing.T) {
	if got := PtrFromNullInt64(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Errorf("PtrFromNullInt64(valid 7) = %v", got)
	}
	if got := PtrFromNullInt64(sql.NullInt64{}); got != nil {
		t.Errorf("PtrFromNullInt64(invalid) = %v, want nil", got)
	}
}

func TestParseNullInt64(t *testing.T) {
	tests := []struct {
		input string
		want  sql.NullInt64
	}{
		{"42", sql.NullInt64{Int64: 42, Valid: true}},
		{"-3", sql.NullInt64{Int64: -3, Valid: true}},
		{"", sql.NullInt64{}},
		{"0", sql.NullInt64{}},
		{"abc", sql.NullInt64{}},
	}

	for _, tt := range tests {
		if got := ParseNullInt64(tt.input); got != tt.want {
			t.Errorf("ParseNullInt64(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue("hello"); !got.Valid || got.String != "hello" {
		t.Errorf("NullStringFromValue(hello) = %+v", got)
	}
	if got := NullStringFromValue(""); got.Valid {
		t.Errorf("NullStringFromValue(\"\") = %+v, want invalid", got)
	}
}

func TestNullStringFromPtr(t *testing.T) {
	s := "hello"
	if got := NullStringFromPtr(&s); !got.Valid || got.String != "hello" {
		t.Errorf("NullStringFromPtr(&hello) = %+v", got)
	}
	if got := NullStringFromPtr(nil); got.Valid {
		t.Errorf("NullStringFromPtr(nil) = %+v, want invalid", got)
	}

	empty := ""
	if got := NullStringFromPtr(&empty); !got.Valid {
		t.Errorf("NullStringFromPtr(&\"\") = %+v, want valid empty", got)
	}
}
