package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	stdmath "math"
	"os"

	"lumenrt/math"
)

// Texture holds CPU-side pixel data for a 2D texture, either 8-bit LDR
// (decoded sRGB-aware on sample) or float HDR, always 4 channels.
type Texture struct {
	Name   string
	Width  int
	Height int
	HDR    bool
	Pixels []byte    // RGBA8, row-major, top-to-bottom; valid when !HDR
	Floats []float32 // RGBA32F, row-major, top-to-bottom; valid when HDR
}

// LoadTexture reads a PNG or JPEG file from disk and returns a CPU-side LDR
// texture, converted to RGBA8.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}

	return &Texture{Name: path, Width: w, Height: h, Pixels: rgba.Pix}, nil
}

// LoadHDRTexture decodes a Radiance .hdr (RGBE) file. No example in the
// corpus carries an HDR/EXR decoder dependency, so this is a small
// stdlib-only implementation (see DESIGN.md).
func LoadHDRTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hdr %q: %w", path, err)
	}
	defer f.Close()
	return decodeRadianceHDR(path, f)
}

// NewSolidTexture creates a 1x1 LDR texture with the given RGBA color values (0-255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{Name: name, Width: 1, Height: 1, Pixels: []byte{r, g, b, a}}
}

// WrapMode controls how out-of-[0,1] texture coordinates are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// TextureRef pairs a texture with sampling parameters, matching the
// scene data model's {wrap_s, wrap_t, linear, mipmap, scale} fields.
// Mipmap is accepted for format compatibility with glTF-sourced scenes but
// this renderer always samples the base level (no ray differentials are
// tracked to pick a mip).
type TextureRef struct {
	Tex     *Texture
	WrapS   WrapMode
	WrapT   WrapMode
	Linear  bool
	Mipmap  bool
	Scale   float32
}

// EvalTexture samples info at (u, v), returning def when info has no
// texture. asLinear requests sRGB decode of LDR textures into linear space;
// HDR textures are always already linear. Pure and safe for concurrent use.
func EvalTexture(info *TextureRef, u, v float32, asLinear bool, def math.Vec4) math.Vec4 {
	if info == nil || info.Tex == nil {
		return def
	}
	t := info.Tex
	if t.Width == 0 || t.Height == 0 {
		return def
	}

	fx := u * float32(t.Width)
	fy := v * float32(t.Height)

	if info.Linear {
		return bilinearSample(t, fx-0.5, fy-0.5, info.WrapS, info.WrapT, asLinear)
	}
	x := wrapCoord(int(stdmath.Floor(float64(fx))), t.Width, info.WrapS)
	y := wrapCoord(int(stdmath.Floor(float64(fy))), t.Height, info.WrapT)
	c := texel(t, x, y)
	if asLinear && !t.HDR {
		c = srgbToLinear(c)
	}
	if info.Scale != 0 {
		c = c.Mul(info.Scale)
	}
	return c
}

func bilinearSample(t *Texture, fx, fy float32, wrapS, wrapT WrapMode, asLinear bool) math.Vec4 {
	x0 := int(stdmath.Floor(float64(fx)))
	y0 := int(stdmath.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := sampleTexel(t, x0, y0, wrapS, wrapT, asLinear)
	c10 := sampleTexel(t, x0+1, y0, wrapS, wrapT, asLinear)
	c01 := sampleTexel(t, x0, y0+1, wrapS, wrapT, asLinear)
	c11 := sampleTexel(t, x0+1, y0+1, wrapS, wrapT, asLinear)

	top := lerp4(c00, c10, tx)
	bot := lerp4(c01, c11, tx)
	return lerp4(top, bot, ty)
}

func sampleTexel(t *Texture, x, y int, wrapS, wrapT WrapMode, asLinear bool) math.Vec4 {
	x = wrapCoord(x, t.Width, wrapS)
	y = wrapCoord(y, t.Height, wrapT)
	c := texel(t, x, y)
	if asLinear && !t.HDR {
		c = srgbToLinear(c)
	}
	return c
}

func wrapCoord(v, size int, mode WrapMode) int {
	if mode == WrapClamp {
		if v < 0 {
			return 0
		}
		if v >= size {
			return size - 1
		}
		return v
	}
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

func texel(t *Texture, x, y int) math.Vec4 {
	if t.HDR {
		i := (y*t.Width + x) * 4
		return math.Vec4{X: t.Floats[i], Y: t.Floats[i+1], Z: t.Floats[i+2], W: t.Floats[i+3]}
	}
	i := (y*t.Width + x) * 4
	p := t.Pixels
	return math.Vec4{
		X: float32(p[i]) / 255,
		Y: float32(p[i+1]) / 255,
		Z: float32(p[i+2]) / 255,
		W: float32(p[i+3]) / 255,
	}
}

func lerp4(a, b math.Vec4, t float32) math.Vec4 {
	return math.Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

func srgbToLinear(c math.Vec4) math.Vec4 {
	return math.Vec4{X: srgbChannel(c.X), Y: srgbChannel(c.Y), Z: srgbChannel(c.Z), W: c.W}
}

func srgbChannel(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(stdmath.Pow((float64(v)+0.055)/1.055, 2.4))
}
