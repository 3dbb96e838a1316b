// Package prng gives each simulated miner its own deterministic pseudo
// random stream. Replays with the same seed and the same dt sequence must
// produce bit-identical telemetry traces, which is the basis of testability
// for the simulation engine (spec §4.1).
package prng

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Stream is a per-miner deterministic random source. It is not safe for
// concurrent use; callers must already hold the owning miner's lock.
type Stream struct {
	rnd *rand.Rand
}

// Seed derives a 64-bit seed from a miner id, a creation timestamp in
// nanoseconds, and an arbitrary salt (e.g. a uuid-derived value mixed in at
// creation time so two miners minted in the same nanosecond still diverge).
func Seed(minerID string, createdAtNanos int64, salt uint64) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(minerID))
	sum := h.Sum64()
	sum ^= uint64(createdAtNanos)
	sum ^= salt
	return int64(sum)
}

// New constructs a Stream from a seed.
func New(seed int64) *Stream {
	return &Stream{rnd: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform value in [0,1).
func (s *Stream) Float64() float64 {
	return s.rnd.Float64()
}

// NormFloat64 returns a standard-normal deviate; callers scale by sigma.
func (s *Stream) NormFloat64() float64 {
	return s.rnd.NormFloat64()
}

// Normal returns a sample from N(mean, sigma^2). sigma <= 0 returns mean.
func (s *Stream) Normal(mean, sigma float64) float64 {
	if sigma <= 0 {
		return mean
	}
	return mean + s.rnd.NormFloat64()*sigma
}

// Bernoulli reports true with probability p (clamped to [0,1]).
func (s *Stream) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rnd.Float64() < p
}

// Exponential draws from an exponential distribution with the given mean.
// Used for pool-reconnect recovery delays (mean time to recovery).
func (s *Stream) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	// -mean * ln(U), U in (0,1)
	u := s.rnd.Float64()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	return -mean * math.Log(u)
}

// Poisson draws a Poisson(lambda) sample using Knuth's algorithm. lambda is
// clamped to be non-negative; for the small lambdas this simulation uses
// per tick (fractional shares per second) this is fast and exact enough.
func (s *Stream) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= s.rnd.Float64()
		if p <= l {
			return k - 1
		}
	}
}
