package render

import (
	"context"

	"lumenrt/integrator"
	"lumenrt/math"
	"lumenrt/rng"
	"lumenrt/scene"
)

// TraceRngs allocates one PCG32 stream per pixel of a width x height image,
// deterministically seeded from seed via rng.PixelSeed so re-running the
// same Params reproduces the same image bit-for-bit.
func TraceRngs(width, height int, seed uint32) []rng.PCG32 {
	rngs := make([]rng.PCG32, width*height)
	for i := range rngs {
		rngs[i] = *rng.NewPixelPCG32(seed, i)
	}
	return rngs
}

// TraceImage renders p.NSamples samples per pixel of scene s into a fresh
// Image and returns it, synchronously. It is a thin convenience wrapper
// around TraceRngs + TraceSamples for callers that don't need progressive
// access to partial results.
func TraceImage(s *scene.Scene, p Params) *Image {
	img := NewImage(p.Width, p.Height)
	rngs := TraceRngs(p.Width, p.Height, p.Seed)
	if err := TraceSamples(context.Background(), s, img, 0, p.NSamples, rngs, p); err != nil {
		p.logger().Error("trace image failed", "error", err)
	}
	return img
}

// TraceSamples renders the half-open sample range [sMin, sMax) of every
// pixel in img, either across all of s's blocks in parallel (p.Parallel) or
// serially on the calling goroutine. rngs must have one entry per pixel,
// indexed row-major as y*p.Width+x, matching TraceRngs. ctx cancellation
// stops launching new blocks; TraceSamples returns ctx.Err() if so.
func TraceSamples(ctx context.Context, s *scene.Scene, img *Image, sMin, sMax int, rngs []rng.PCG32, p Params) error {
	blocks := Blocks(p.Width, p.Height, p.BlockSize)
	if !p.Parallel {
		for _, b := range blocks {
			if err := ctx.Err(); err != nil {
				return err
			}
			TraceBlock(s, img, b, sMin, sMax, rngs, p)
		}
		return nil
	}

	ex := NewExecutor(0)
	fns := make([]func(context.Context) error, len(blocks))
	for i, b := range blocks {
		b := b
		fns[i] = func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			TraceBlock(s, img, b, sMin, sMax, rngs, p)
			return nil
		}
	}
	return ex.Run(ctx, fns)
}

// TraceBlock renders sample range [sMin, sMax) of every pixel in block into
// img, using each pixel's dedicated PCG32 stream from rngs and the
// reconstruction filter selected by p.FilterType when it has nonzero
// support; box filtering (the default) splats each sample straight into its
// own pixel without touching neighbors.
func TraceBlock(s *scene.Scene, img *Image, block Block, sMin, sMax int, rngs []rng.PCG32, p Params) {
	if p.CameraID < 0 || p.CameraID >= len(s.Cameras) {
		p.logger().Error("trace block: camera id out of range", "camera", p.CameraID, "cameras", len(s.Cameras))
		return
	}
	cam := &s.Cameras[p.CameraID]
	filter := NewFilter(p.FilterType)
	ip := p.integratorParams()

	// Non-box filters splat beyond the block's own pixels, into neighbors
	// that a concurrently-running block may own; accumulate those into a
	// tile-private scratch buffer and commit it to img under one lock
	// acquisition instead of racing on Image.Pixels/Samples per sample.
	var tile *tileAccum
	if filter.Radius > 0 {
		pad := int(filter.Radius) + 1
		tx0, ty0 := block.X0-pad, block.Y0-pad
		tx1, ty1 := block.X1+pad, block.Y1+pad
		if tx0 < 0 {
			tx0 = 0
		}
		if ty0 < 0 {
			ty0 = 0
		}
		if tx1 > p.Width {
			tx1 = p.Width
		}
		if ty1 > p.Height {
			ty1 = p.Height
		}
		tile = newTileAccum(tx0, ty0, tx1, ty1)
	}

	for y := block.Y0; y < block.Y1; y++ {
		for x := block.X0; x < block.X1; x++ {
			idx := y*p.Width + x
			r := &rngs[idx]
			sampler := rng.NewSampler(r, p.RNGType, rng.PixelHash(x, y), sMax)

			for si := sMin; si < sMax; si++ {
				sampler.StartSample(si)
				jx, jy := sampler.Next2f()
				px := float32(x) + jx
				py := float32(y) + jy

				lu, lv := sampler.Next2f()
				ray := CameraRay(cam, px, py, p.Width, p.Height, lu, lv)

				radiance, hit := integrator.Shade(s, ray, sampler, ip)

				alpha := float32(0)
				if hit {
					alpha = 1
				}

				if filter.Radius <= 0 {
					img.Accumulate(x, y, radiance, alpha, 1)
					continue
				}
				splatFiltered(tile, px, py, radiance, alpha, filter)
			}
		}
	}

	if tile != nil {
		img.CommitTile(tile)
	}
}

// splatFiltered distributes one sample at continuous film position (px, py)
// across every pixel within filter's support radius, weighting each by the
// filter's response at that pixel's offset from the sample, into tile's
// private scratch buffer.
func splatFiltered(tile *tileAccum, px, py float32, c math.Vec3, alpha float32, filter Filter) {
	r := filter.Radius
	x0 := int(px - r)
	x1 := int(px + r)
	y0 := int(py - r)
	y1 := int(py + r)
	if x0 < tile.x0 {
		x0 = tile.x0
	}
	if y0 < tile.y0 {
		y0 = tile.y0
	}
	if x1 >= tile.x0+tile.w {
		x1 = tile.x0 + tile.w - 1
	}
	if y1 >= tile.y0+tile.h {
		y1 = tile.y0 + tile.h - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float32(x) + 0.5) - px
			dy := (float32(y) + 0.5) - py
			w := filter.Weight(dx, dy)
			if w <= 0 {
				continue
			}
			tile.add(x, y, c, alpha, w)
		}
	}
}

// TraceBlocks is TraceSamples' parallel path exposed for callers that
// already have a Block list and a standing Executor (e.g. the viewer, which
// wants to report progress block-by-block across repeated calls on the same
// worker budget): it renders every block in blocks via ex.Run (or serially
// on the calling goroutine when p.Parallel is false) and returns the first
// error.
func TraceBlocks(ctx context.Context, s *scene.Scene, img *Image, blocks []Block, sMin, sMax int, rngs []rng.PCG32, p Params, ex *Executor) error {
	if !p.Parallel {
		for _, b := range blocks {
			if err := ctx.Err(); err != nil {
				return err
			}
			TraceBlock(s, img, b, sMin, sMax, rngs, p)
		}
		return nil
	}
	fns := make([]func(context.Context) error, len(blocks))
	for i, b := range blocks {
		b := b
		fns[i] = func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			TraceBlock(s, img, b, sMin, sMax, rngs, p)
			return nil
		}
	}
	return ex.Run(ctx, fns)
}

// TraceAsyncStart launches a standing progressive render on ex: it repeats
// single-sample passes over every block of img in sequence, each pass
// dispatched across ex's own worker budget via TraceBlocks (one call to
// onSample per completed sample index, e.g. to drive a live preview window),
// until TraceAsyncStop cancels it or p.NSamples is exhausted. rngs must have
// one entry per pixel. Starting a second session on an already-running ex
// is a no-op.
func TraceAsyncStart(s *scene.Scene, img *Image, rngs []rng.PCG32, p Params, ex *Executor, onSample func(int)) {
	if ex.sessionCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ex.sessionCancel = cancel
	ex.sessionDone = done

	blocks := Blocks(p.Width, p.Height, p.BlockSize)

	go func() {
		defer close(done)
		for si := 0; si < p.NSamples; si++ {
			if ctx.Err() != nil {
				return
			}
			if err := TraceBlocks(ctx, s, img, blocks, si, si+1, rngs, p, ex); err != nil {
				p.logger().Warn("async trace sample failed", "sample", si, "error", err)
				return
			}
			if onSample != nil {
				onSample(si)
			}
		}
	}()
}

// TraceAsyncStop cancels the session started by TraceAsyncStart on ex and
// waits for its loop to observe the cancellation and return. A no-op if no
// session is running.
func TraceAsyncStop(ex *Executor) {
	if ex.sessionCancel != nil {
		ex.sessionCancel()
		<-ex.sessionDone
		ex.sessionCancel = nil
		ex.sessionDone = nil
	}
}
