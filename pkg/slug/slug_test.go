// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phamquangminh/shoply/pkg/slug"
)

/*
TestFrom covers the normalization pipeline: accents, case, punctuation, and
hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "Noise Cancelling Headphones", "noise-cancelling-headphones"},
		{"punctuation_stripped", "50% Off!! Best Deal?", "50-off-best-deal"},
		{"accents_flattened", "Café Crème Brûlée", "cafe-creme-brulee"},
		{"hyphens_collapsed", "one -- two --- three", "one-two-three"},
		{"edges_trimmed", "  --hello world--  ", "hello-world"},
		{"already_slugged", "mechanical-keyboard", "mechanical-keyboard"},
		{"empty_input", "", ""},
		{"symbols_only", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.From(tc.input))
		})
	}
}
