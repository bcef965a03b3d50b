package render

import (
	"log/slog"

	"lumenrt/integrator"
	"lumenrt/math"
	"lumenrt/rng"
)

// FilterKind selects the pixel reconstruction filter TraceBlockFiltered
// splats each sample through.
type FilterKind int

const (
	FilterBox FilterKind = iota
	FilterTriangle
	FilterCubic
	FilterCatmullRom
	FilterMitchell
)

// filterRadius is each filter's support radius in pixels.
func filterRadius(k FilterKind) float32 {
	switch k {
	case FilterBox:
		return 0
	case FilterTriangle:
		return 1
	default:
		return 2
	}
}

// Params configures one progressive render: which camera, image size,
// sample budget, shading algorithm, sampler, and reconstruction filter to
// use, plus the integrator's own numerical controls. Field-for-field match
// of the source's trace_params record.
type Params struct {
	CameraID int
	Width    int
	Height   int
	NSamples int

	ShaderType           integrator.ShaderKind
	ShadowNoTransmission bool
	RNGType              rng.RNGKind
	FilterType           FilterKind

	Amb             math.Vec3
	EnvmapInvisible bool
	MinDepth        int
	MaxDepth        int
	PixelClamp      float32
	RayEps          float32

	Parallel  bool
	Seed      uint32
	BlockSize int

	// Logger receives dropped-sample/degenerate-geometry diagnostics.
	// Never nil: DefaultParams sets it to slog.Default(), and TraceImage
	// falls back to slog.Default() if a caller-constructed Params leaves
	// it unset.
	Logger *slog.Logger
}

// DefaultParams mirrors integrator.DefaultParams, adding the image/sampling
// defaults: a single 512x512 block-parallel pathtrace at 16 samples/pixel.
func DefaultParams() Params {
	ip := integrator.DefaultParams()
	return Params{
		Width:      512,
		Height:     512,
		NSamples:   16,
		ShaderType: ip.Shader,
		RNGType:    rng.KindStratified,
		FilterType: FilterBox,
		MinDepth:   ip.MinDepth,
		MaxDepth:   ip.MaxDepth,
		PixelClamp: ip.PixelClamp,
		RayEps:     ip.RayEps,
		Parallel:   true,
		BlockSize:  32,
		Logger:     slog.Default(),
	}
}

// integratorParams projects the render-level Params down to the subset
// integrator.Shade consumes.
func (p Params) integratorParams() integrator.Params {
	return integrator.Params{
		Shader:               p.ShaderType,
		ShadowNoTransmission: p.ShadowNoTransmission,
		Amb:                  p.Amb,
		EnvmapInvisible:      p.EnvmapInvisible,
		MinDepth:             p.MinDepth,
		MaxDepth:             p.MaxDepth,
		PixelClamp:           p.PixelClamp,
		RayEps:               p.RayEps,
	}
}

func (p Params) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
