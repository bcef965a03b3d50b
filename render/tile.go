package render

import "lumenrt/math"

// Block is one block_size x block_size (or smaller, at the image's right/
// bottom edge) rectangle of pixels, the unit of work TraceBlock and the
// parallel executor operate on.
type Block struct {
	X0, Y0, X1, Y1 int // half-open pixel range [X0,X1) x [Y0,Y1)
}

// Width and Height return the block's pixel extents.
func (b Block) Width() int  { return b.X1 - b.X0 }
func (b Block) Height() int { return b.Y1 - b.Y0 }

// Blocks decomposes a width x height image into blockSize x blockSize
// tiles, clipping the last row/column of blocks to the image bounds.
func Blocks(width, height, blockSize int) []Block {
	if blockSize <= 0 {
		blockSize = width
		if height > blockSize {
			blockSize = height
		}
	}
	var blocks []Block
	for y := 0; y < height; y += blockSize {
		y1 := y + blockSize
		if y1 > height {
			y1 = height
		}
		for x := 0; x < width; x += blockSize {
			x1 := x + blockSize
			if x1 > width {
				x1 = width
			}
			blocks = append(blocks, Block{X0: x, Y0: y, X1: x1, Y1: y1})
		}
	}
	return blocks
}

// tileAccum is one tile's private scratch buffer for filtered splats: a
// dense grid over [x0,x0+w) x [y0,y0+h), accumulating sum(c_i*w_i) and
// sum(w_i) per pixel so TraceBlock can commit the whole tile to the shared
// Image in a single locked pass instead of locking per sample.
type tileAccum struct {
	x0, y0 int
	w, h   int
	color  []math.Vec4
	weight []float32
}

// newTileAccum allocates a scratch buffer over the half-open pixel range
// [x0,x1) x [y0,y1); the caller is responsible for clipping that range to
// the image bounds.
func newTileAccum(x0, y0, x1, y1 int) *tileAccum {
	w := x1 - x0
	h := y1 - y0
	return &tileAccum{
		x0: x0, y0: y0, w: w, h: h,
		color:  make([]math.Vec4, w*h),
		weight: make([]float32, w*h),
	}
}

// add folds one filter-weighted sample into the scratch buffer at (x, y),
// which must lie within the tile's allocated bounds.
func (t *tileAccum) add(x, y int, c math.Vec3, a, w float32) {
	i := (y-t.y0)*t.w + (x - t.x0)
	t.color[i] = t.color[i].Add(math.Vec4{X: c.X * w, Y: c.Y * w, Z: c.Z * w, W: a * w})
	t.weight[i] += w
}
