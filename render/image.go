package render

import (
	"sync"

	"lumenrt/math"
)

// Image is the progressive accumulation buffer: each pixel holds the
// average of every sample splatted into it so far, plus the sample count
// needed to fold in further batches without re-visiting old samples.
type Image struct {
	Width, Height int
	Pixels        []math.Vec4 // RGB accumulated average, A = hit coverage
	Samples       []float32   // per-pixel accumulated sample weight

	// mu guards commits that can touch pixels outside the committing
	// tile's own bounds (CommitTile, used by non-box filters whose splat
	// footprint crosses tile boundaries). The box filter never needs it:
	// each tile only ever writes pixels inside its own exclusive bounds.
	mu sync.Mutex
}

// NewImage allocates a zeroed accumulation buffer of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		Width:   width,
		Height:  height,
		Pixels:  make([]math.Vec4, width*height),
		Samples: make([]float32, width*height),
	}
}

func (img *Image) index(x, y int) int { return y*img.Width + x }

// Accumulate folds one new sample (radiance c, weight w, hit alpha a) into
// pixel (x, y), unsynchronized. Safe to call concurrently across tiles only
// when the caller guarantees each tile's samples land in pixels no other
// tile ever touches — true of box filtering, where a sample always lands
// in the pixel that produced it.
func (img *Image) Accumulate(x, y int, c math.Vec3, a float32, w float32) {
	img.accumulate(x, y, math.Vec4{X: c.X * w, Y: c.Y * w, Z: c.Z * w, W: a * w}, w)
}

// accumulate applies a pre-weighted sum of samples (sumCA = sum(c_i*w_i),
// sumW = sum(w_i)) to pixel (x, y) in one running-average update, equivalent
// to applying each sample individually since the update is linear in weight.
func (img *Image) accumulate(x, y int, sumCA math.Vec4, sumW float32) {
	i := img.index(x, y)
	sOld := img.Samples[i]
	sNew := sOld + sumW
	if sNew <= 0 {
		return
	}
	old := img.Pixels[i]
	img.Pixels[i] = math.Vec4{
		X: (old.X*sOld + sumCA.X) / sNew,
		Y: (old.Y*sOld + sumCA.Y) / sNew,
		Z: (old.Z*sOld + sumCA.Z) / sNew,
		W: (old.W*sOld + sumCA.W) / sNew,
	}
	img.Samples[i] = sNew
}

// CommitTile merges one tile's locally-accumulated filter splats into the
// image under a single mutex acquisition held for the whole commit, so
// concurrent tiles whose filter footprints overlap never race on Pixels or
// Samples.
func (img *Image) CommitTile(tile *tileAccum) {
	img.mu.Lock()
	defer img.mu.Unlock()
	for i, w := range tile.weight {
		if w <= 0 {
			continue
		}
		x := tile.x0 + i%tile.w
		y := tile.y0 + i/tile.w
		img.accumulate(x, y, tile.color[i], w)
	}
}

// At returns pixel (x, y)'s current accumulated value.
func (img *Image) At(x, y int) math.Vec4 {
	return img.Pixels[img.index(x, y)]
}
