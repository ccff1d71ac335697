// internal/dice/dice.go
//
// Target draws for the guessing game.
// Responsibilities:
//   - Map a dice count to the highest guessable number (6 faces per die).
//   - Draw targets uniformly in [1, max] from crypto/rand.
//   - Provide a fixed roller so tests (and replays) get deterministic targets.

package dice

import (
	"crypto/rand"
	"math/big"
)

// Faces is the number of faces on a single die.
const Faces = 6

// Roller draws a target in [1, max].
type Roller interface {
	Roll(max int) int
}

// MaxNumber returns the highest target reachable with n dice.
// Counts below one are treated as a single die.
func MaxNumber(n int) int {
	if n < 1 {
		n = 1
	}
	return n * Faces
}

// CryptoRoller draws targets from crypto/rand.
type CryptoRoller struct{}

// Roll returns a uniform value in [1, max]. If max < 1 or the entropy
// source fails, it falls back to 1.
func (CryptoRoller) Roll(max int) int {
	if max < 1 {
		return 1
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 1
	}
	return int(nBig.Int64()) + 1
}

// Sequence replays a fixed list of targets, cycling when exhausted.
type Sequence struct {
	values []int
	next   int
}

// Fixed returns a roller that yields values in order.
// Values outside [1, max] are clamped at roll time.
func Fixed(values ...int) *Sequence {
	return &Sequence{values: append([]int(nil), values...)}
}

// Roll returns the next queued value, clamped to [1, max].
func (s *Sequence) Roll(max int) int {
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 1 {
		return 1
	}
	if max >= 1 && v > max {
		return max
	}
	return v
}
