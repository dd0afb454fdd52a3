package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnixCeil(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected int64
	}{
		{name: "whole second", at: time.Unix(1000, 0), expected: 1000},
		{name: "sub-second rounds up", at: time.Unix(1000, 1), expected: 1001},
		{name: "near next second rounds up", at: time.Unix(1000, 999_999_999), expected: 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, unixCeil(tt.at))
		})
	}
}

func TestCeilSeconds(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected int
	}{
		{name: "zero floors at one", d: 0, expected: 1},
		{name: "negative floors at one", d: -time.Second, expected: 1},
		{name: "sub-second rounds up", d: 300 * time.Millisecond, expected: 1},
		{name: "partial second rounds up", d: 1500 * time.Millisecond, expected: 2},
		{name: "whole seconds unchanged", d: 3 * time.Second, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ceilSeconds(tt.d))
		})
	}
}
