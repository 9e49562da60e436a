package scheduler

import (
	"math/rand"
	"time"
)

// Rand is the randomness the engine needs for tie-breaking.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded generator; a zero seed uses the clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
