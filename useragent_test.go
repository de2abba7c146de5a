package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomUserAgent(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Contains(t, userAgentPool, randomUserAgent())
	}
}

func TestFormatComma(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatComma(tt.in), "in=%d", tt.in)
	}
}
