package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberColor(t *testing.T) {
	assert.Equal(t, "green", NumberColor(0))

	reds := []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36}
	redSet := make(map[int]bool, len(reds))
	for _, n := range reds {
		redSet[n] = true
		assert.Equal(t, "red", NumberColor(n), "number %d", n)
	}
	for n := 1; n <= 36; n++ {
		if !redSet[n] {
			assert.Equal(t, "black", NumberColor(n), "number %d", n)
		}
	}
}

func TestValidNumber(t *testing.T) {
	assert.True(t, ValidNumber(0))
	assert.True(t, ValidNumber(36))
	assert.False(t, ValidNumber(-1))
	assert.False(t, ValidNumber(37))
}
