package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSuitType(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"wetsuit", "wetsuit", true},
		{"Drysuit", "drysuit", true},
		{" SHORTIE ", "shortie", true},
		{"", "", true},
		{"chainmail", "other", false},
		{"other", "other", true},
	}
	for _, tc := range cases {
		got, ok := NormalizeSuitType(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}

func TestNormalizeWaterType(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"salt", "salt", true},
		{"Fresh", "fresh", true},
		{"brackish", "brackish", true},
		{"", "", true},
		{"lava", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeWaterType(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}
