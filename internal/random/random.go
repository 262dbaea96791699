// Package random isolates every random draw behind a Source so outcomes can
// be made deterministic
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Source supplies uniform random values
type Source interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// Uniform draws from [low, high) using src
func Uniform(src Source, low float64, high float64) float64 {
	return low + (high-low)*src.Float64()
}

type seeded struct {
	sync.Mutex
	r *rand.Rand
}

// NewSeeded returns a deterministic source; a zero seed uses the clock
func NewSeeded(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64() float64 {
	s.Lock()
	defer s.Unlock()
	return s.r.Float64()
}

func (s *seeded) Intn(n int) int {
	s.Lock()
	defer s.Unlock()
	return s.r.Intn(n)
}

type secure struct{}

// NewSecure returns a source backed by crypto/rand, used for addresses
func NewSecure() Source {
	return secure{}
}

func (secure) Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("random: crypto source failed: " + err.Error())
	}
	// 53 bits of mantissa
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

func (s secure) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int(s.Float64() * float64(n))
}

// Sequence replays fixed values in order, wrapping around at the end
type Sequence struct {
	sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a source that yields values in order
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.Lock()
	defer s.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *Sequence) Intn(n int) int {
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
