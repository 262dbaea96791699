package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/cooin-ledger/internal/random"
)

func TestSeededIsDeterministic(t *testing.T) {
	a := random.NewSeeded(42)
	b := random.NewSeeded(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(62), b.Intn(62))
	}
}

func TestSecureRange(t *testing.T) {
	s := random.NewSecure()
	for i := 0; i < 1000; i++ {
		f := s.Float64()
		assert.True(t, f >= 0 && f < 1, "float out of range: %v", f)
		n := s.Intn(62)
		assert.True(t, n >= 0 && n < 62, "int out of range: %d", n)
	}
}

func TestSequence(t *testing.T) {
	s := random.NewSequence(0.25, 0.999)
	assert.Equal(t, 0.25, s.Float64())
	assert.Equal(t, 0.999, s.Float64())
	assert.Equal(t, 0.25, s.Float64(), "wraps around")
	assert.Equal(t, 9, s.Intn(10))
}

func TestUniform(t *testing.T) {
	assert.InDelta(t, 0.9, random.Uniform(random.NewSequence(0), 0.9, 1.1), 1e-12)
	assert.InDelta(t, 1.0, random.Uniform(random.NewSequence(0.5), 0.9, 1.1), 1e-12)
}
