// Package rng implements the PCG32 pseudo-random generator and the
// per-pixel sampler layered on top of it. Every pixel owns an independent
// stream seeded deterministically from (user seed, pixel index), so
// re-rendering the same sample range at a pixel reproduces bitwise
// identical noise.
package rng

import stdmath "math"

const (
	pcgDefaultState = uint64(0x853c49e6748fea9b)
	pcgDefaultInc   = uint64(0xda3e39cb94b95bdb)
	pcgMult         = uint64(0x5851f42d4c957f2d)
)

// PCG32 is a PCG XSH-RR generator with 64 bits of state and a 64-bit odd
// stream increment (O'Neill, "PCG: A Family of Simple Fast Space-Efficient
// Statistically Good Algorithms for Random Number Generation", 2014).
type PCG32 struct {
	state uint64
	inc   uint64
}

// NewPCG32 seeds a generator for the given (state, sequence) pair using the
// Knuth-style double-step initialization PCG uses to decorrelate nearby seeds.
func NewPCG32(initState, initSeq uint64) *PCG32 {
	p := &PCG32{}
	p.Seed(initState, initSeq)
	return p
}

// Seed re-initializes the generator per Knuth's double-step: advance once
// with the increment fixed, fold in the seed, advance again.
func (p *PCG32) Seed(initState, initSeq uint64) {
	p.state = 0
	p.inc = (initSeq << 1) | 1
	p.step()
	p.state += initState
	p.step()
}

func (p *PCG32) step() {
	p.state = p.state*pcgMult + p.inc
}

// NextUint32 advances the generator and returns the next permuted output
// (XSH-RR: xorshift-high, then a variable rotate keyed by the top bits).
func (p *PCG32) NextUint32() uint32 {
	old := p.state
	p.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Advance jumps the generator's state forward (or backward, for negative
// delta interpreted as two's complement) by delta steps in O(log delta)
// time, using Brown's 1994 "random number generation with arbitrary stride".
func (p *PCG32) Advance(delta uint64) {
	accMult := uint64(1)
	accPlus := uint64(0)
	curMult := pcgMult
	curPlus := p.inc
	d := delta
	for d > 0 {
		if d&1 != 0 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
		d >>= 1
	}
	p.state = accMult*p.state + accPlus
}

// NextFloat32 returns a uniform float32 in [0, 1) using the classic
// mantissa trick: fill the mantissa bits of a float in [1, 2) and subtract
// 1, which avoids the rounding bias of naively dividing by 2^32.
func (p *PCG32) NextFloat32() float32 {
	bits := p.NextUint32()
	mantissa := bits >> 9
	asFloat := stdmath.Float32frombits(0x3f800000 | mantissa)
	return asFloat - 1
}

// BoundedUint32 returns a uniform integer in [0, n) via rejection sampling,
// avoiding the small modulo bias a naive `NextUint32() % n` would introduce.
func (p *PCG32) BoundedUint32(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	threshold := -n % n
	for {
		r := p.NextUint32()
		if r >= threshold {
			return r % n
		}
	}
}
