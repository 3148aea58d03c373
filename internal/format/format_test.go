package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{19.5, "$19.50"},
		{20, "$20.00"},
		{45, "$45.00"},
		{0, "$0.00"},
		{1250, "$1250.00"},
		{-3.5, "-$3.50"},
		{math.NaN(), "$0.00"},
		{math.Inf(1), "$0.00"},
		{math.Inf(-1), "$0.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Price(tc.in))
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ts   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-2 * time.Minute), "2m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2026-08-30"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Relative(tc.ts, now))
	}
}

func TestDateTime(t *testing.T) {
	assert.Equal(t, "", DateTime(time.Time{}))
	ts := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "Sep 1, 2026 09:30", DateTime(ts))
}
