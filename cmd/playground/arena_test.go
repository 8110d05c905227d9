package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos  float64
		size int
		want int
	}{
		{0, 10, 0},
		{9.9, 10, 9},
		{10, 10, 0},
		{23.5, 10, 3},
		{-0.5, 10, 9},
		{-10, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrap(tt.pos, tt.size), "wrap(%g, %d)", tt.pos, tt.size)
	}
}

func TestReflect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos  float64
		size int
		want int
	}{
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 8},
		{18, 10, 0},
		{20, 10, 2},
		{-3, 10, 3},
		{7, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reflect(tt.pos, tt.size), "reflect(%g, %d)", tt.pos, tt.size)
	}
}

func TestClampCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, clampCell(-4, 10))
	assert.Equal(t, 4, clampCell(4, 10))
	assert.Equal(t, 9, clampCell(12, 10))
}
