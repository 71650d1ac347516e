package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetween(t *testing.T) {
	src := &Scripted{Int63s: []int64{0, 10, 3}}
	assert.Equal(t, int64(5), Between(src, 5, 10))
	// 10 % 6 == 4
	assert.Equal(t, int64(9), Between(src, 5, 10))
	assert.Equal(t, int64(7), Between(src, 7, 7))
	assert.Equal(t, int64(7), Between(src, 7, 3))
}

func TestUniform(t *testing.T) {
	src := &Scripted{Floats: []float64{0.5}}
	assert.InDelta(t, 0.2, Uniform(src, 0.1, 0.3), 1e-9)
}

func TestNewSourceRange(t *testing.T) {
	src := New()
	for i := 0; i < 100; i++ {
		v := Between(src, 1, 6)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(6))
	}
}
