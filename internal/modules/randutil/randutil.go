// Package randutil provides the random source shared by the feature modules.
// Services depend on Source so tests can script every roll.
package randutil

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the subset of *rand.Rand the modules use.
type Source interface {
	Float64() float64
	Intn(n int) int
	Int63n(n int64) int64
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a goroutine-safe source seeded from the clock.
func New() Source {
	return &lockedSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int63n(n)
}

// Between returns a uniform integer in [min, max]. min is returned when max <= min.
func Between(src Source, min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + src.Int63n(max-min+1)
}

// Uniform returns a uniform float in [a, b).
func Uniform(src Source, a, b float64) float64 {
	return a + (b-a)*src.Float64()
}

// Pick returns a random element of items.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Scripted replays fixed values; used by tests across the modules.
// Each method consumes its own queue and returns zero values once it runs dry.
type Scripted struct {
	Floats []float64
	Ints   []int
	Int63s []int64
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v % n
}

func (s *Scripted) Int63n(n int64) int64 {
	if len(s.Int63s) == 0 {
		return 0
	}
	v := s.Int63s[0]
	s.Int63s = s.Int63s[1:]
	return v % n
}
