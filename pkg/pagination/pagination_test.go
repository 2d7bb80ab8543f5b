// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/titles/", nil)

	params := FromRequest(req)

	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestFromRequestExplicitValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/titles/?limit=5&offset=40", nil)

	params := FromRequest(req)

	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, 40, params.Offset)
}

func TestFromRequestClamping(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/titles/?limit=9999&offset=-3", nil)

	params := FromRequest(req)

	// Excessive limits clamp to the cap, not back to the default.
	assert.Equal(t, MaxLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestFromRequestNonPositiveLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/titles/?limit=0", nil)

	params := FromRequest(req)

	assert.Equal(t, DefaultLimit, params.Limit)
}

func TestFromRequestGarbageInput(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/titles/?limit=abc&offset=xyz", nil)

	params := FromRequest(req)

	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Limit: 10, Offset: 20}, 57)

	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 20, meta.Offset)
	assert.Equal(t, 57, meta.Total)
}
