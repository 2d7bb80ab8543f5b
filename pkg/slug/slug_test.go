// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Books", "books"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Café Littéraire", "cafe-litteraire"},
		{"punctuation", "Rock & Roll!", "rock-roll"},
		{"multiple_separators", "a -- b", "a-b"},
		{"leading_trailing", " -Movies- ", "movies"},
		{"digits", "Top 100", "top-100"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, From(tt.input))
		})
	}
}

func TestFromTruncation(t *testing.T) {
	long := strings.Repeat("abcde ", 20) // well over 50 chars once slugged

	result := From(long)

	assert.LessOrEqual(t, len(result), 50)
	assert.False(t, strings.HasSuffix(result, "-"), "truncation must not leave a dangling hyphen")
}
