package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Channel noise for testing.
 *
 * Description:	Binary symmetric channel: every bit is flipped on its
 *		own with probability ber.  The random source is passed in
 *		so a seed reproduces a run exactly.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math/rand/v2"
)

// NewNoiseSource returns a deterministic generator for seed.
func NewNoiseSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)) //nolint:gosec
}

// ApplyNoise returns a noisy copy of b and the number of flipped bits.
func ApplyNoise(b Bits, ber float64, rng *rand.Rand) (Bits, int, error) {
	if ber < 0 || ber > 1 {
		return nil, 0, fmt.Errorf("bit error rate %g out of range 0 to 1", ber)
	}

	var out = b.Clone()
	var flips = 0

	if ber == 0 {
		return out, 0, nil
	}

	for i := range out {
		if rng.Float64() < ber {
			out[i] ^= 1
			flips++
		}
	}

	return out, flips, nil
}
