package zmachine

import "math/rand/v2"

// Random implements the RANDOM opcode's dual personality: a genuine PRNG
// for positive arguments, and a predictable counting sequence (see Roll),
// entered with a negative argument, used by story files (and their test
// suites) that want reproducible "randomness".
type Random struct {
	rng       *rand.Rand
	predict   bool
	predictAt uint16
}

func newRandom() *Random {
	return &Random{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Roll implements the RANDOM opcode given its signed operand:
//   - range > 0: uniform random integer in [1, range]
//   - range == 0: reseed with fresh entropy, return 0
//   - range < 0: seed the predictable sequence with -range, return 0
//   - thereafter, while in predictable mode, successive calls with a
//     positive range cycle 1..range in order
func (r *Random) Roll(rng int16) uint16 {
	switch {
	case rng > 0:
		if r.predict {
			v := r.predictAt%uint16(rng) + 1
			r.predictAt++
			return v
		}
		return uint16(r.rng.IntN(int(rng)) + 1)
	case rng == 0:
		r.predict = false
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		return 0
	default:
		r.predict = true
		r.predictAt = 0
		r.rng = rand.New(rand.NewPCG(uint64(-rng), uint64(-rng)))
		return 0
	}
}
