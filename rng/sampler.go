package rng

// RNGKind selects the sampling strategy layered on top of a PCG32 stream.
type RNGKind int

const (
	KindUniform RNGKind = iota
	KindStratified
)

// PixelSeed derives the per-pixel (state, sequence) pair from a user seed
// and a linear pixel index, matching the render loop's convention:
// sequence = (pixelIndex*2 + 1), which keeps every pixel's stream on an odd
// increment (PCG requires odd increments) while remaining stable whether a
// pixel is re-seeded across one call or split across several sample ranges.
func PixelSeed(seed uint32, pixelIndex int) (uint64, uint64) {
	return uint64(seed), uint64(pixelIndex)*2 + 1
}

// NewPixelPCG32 builds the generator for pixel pixelIndex under the given
// user seed, per PixelSeed's derivation.
func NewPixelPCG32(seed uint32, pixelIndex int) *PCG32 {
	state, seq := PixelSeed(seed, pixelIndex)
	return NewPCG32(state, seq)
}

// Sampler draws 1D/2D samples for path construction. In stratified mode it
// places sample `sampleIndex`'s dimension `d` value inside one cell of a
// √N×√N stratification grid, chosen by a hash-permutation of sampleIndex
// keyed on (pixelHash, d), then jittered inside the cell; the dimension
// counter increments on every call so successive bounces draw from
// different strata. In uniform mode it is a thin pass-through to the PCG32.
type Sampler struct {
	rng         *PCG32
	kind        RNGKind
	pixelHash   uint32
	sampleIndex int
	dim         int
	stratDim    int // √spp, 0 disables stratification (falls back to uniform)
}

// NewSampler builds a sampler over rng for the given pixel. spp is the
// total samples-per-pixel budget, used to size the stratification grid;
// pass 0 if unknown (stratification degrades to uniform for that call).
func NewSampler(r *PCG32, kind RNGKind, pixelHash uint32, spp int) *Sampler {
	s := &Sampler{rng: r, kind: kind, pixelHash: pixelHash}
	if kind == KindStratified && spp > 0 {
		n := 1
		for n*n < spp {
			n++
		}
		s.stratDim = n
	}
	return s
}

// StartSample resets the dimension counter for a new path/sample index.
func (s *Sampler) StartSample(sampleIndex int) {
	s.sampleIndex = sampleIndex
	s.dim = 0
}

// Next1f draws the next uniform scalar in [0, 1).
func (s *Sampler) Next1f() float32 {
	d := s.dim
	s.dim++
	if s.kind == KindStratified && s.stratDim > 0 {
		return s.stratified1f(d)
	}
	return s.rng.NextFloat32()
}

// Next2f draws the next uniform pair in [0, 1)^2.
func (s *Sampler) Next2f() (float32, float32) {
	return s.Next1f(), s.Next1f()
}

// Next1i draws a uniform integer in [0, n) via rejection sampling.
func (s *Sampler) Next1i(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.rng.BoundedUint32(uint32(n)))
}

func (s *Sampler) stratified1f(d int) float32 {
	n := s.stratDim
	cells := n * n
	stratum := int(hashPermute(uint32(s.sampleIndex), s.pixelHash, uint32(d)) % uint32(cells))
	jitter := s.rng.NextFloat32()
	return (float32(stratum) + jitter) / float32(cells)
}

// hashPermute combines a sample index with pixel and dimension keys into a
// well-mixed 32-bit value (a small Murmur-style finalizer), used to permute
// which stratum a given (sample, dimension) pair lands in.
func hashPermute(sampleIndex, pixelHash, dim uint32) uint32 {
	h := sampleIndex ^ (pixelHash * 0x9e3779b9) ^ (dim * 0x85ebca6b)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// PixelHash folds (x, y) pixel coordinates into the 32-bit key used above.
func PixelHash(x, y int) uint32 {
	return hashPermute(uint32(x), uint32(y), 0x9747b28c)
}
