// Command lumenrt renders a scene file to a PNG (or, with -preview, a live
// progressive window) using the path-tracing integrator.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	stdmath "math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lumenrt/integrator"
	lio "lumenrt/io"
	"lumenrt/render"
	"lumenrt/rng"
	"lumenrt/scene"
	"lumenrt/viewer"
)

func init() {
	viper.SetConfigName("lumenrt")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("lumenrt")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "error loading configuration file:", err)
		}
	}
}

var (
	outPath    string
	width      int
	height     int
	samples    int
	shaderName string
	filterName string
	rngName    string
	seed       uint32
	blockSize  int
	threads    int
	minDepth   int
	maxDepth   int
	pixelClamp float32
	preview    bool
)

var rootCmd = &cobra.Command{
	Use:   "lumenrt [scene]",
	Short: "lumenrt is a physically-based progressive path tracer",
	Long:  "lumenrt traces scenes (.obj or .gltf/.glb) with a multiple-importance-sampled path tracer, writing a progressively-refined image or, with -preview, displaying it live.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&outPath, "output", "o", "out.png", "output image path")
	flags.IntVar(&width, "width", 1280, "image width in pixels")
	flags.IntVar(&height, "height", 720, "image height in pixels")
	flags.IntVarP(&samples, "samples", "s", 64, "samples per pixel")
	flags.StringVar(&shaderName, "shader", "pathtrace", "shader: pathtrace|pathtrace-nomis|direct|eyelight|normal|albedo|texcoord")
	flags.StringVar(&filterName, "filter", "box", "reconstruction filter: box|triangle|cubic|catmullrom|mitchell")
	flags.StringVar(&rngName, "rng", "stratified", "sampler: uniform|stratified")
	flags.Uint32Var(&seed, "seed", 1, "sampling seed")
	flags.IntVar(&blockSize, "block-size", 32, "tile size for parallel rendering")
	flags.IntVar(&threads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	flags.IntVar(&minDepth, "min-depth", 1, "russian-roulette start depth")
	flags.IntVar(&maxDepth, "max-depth", 8, "maximum path depth")
	flags.Float32Var(&pixelClamp, "pixel-clamp", 10, "firefly clamp on each sample's radiance")
	flags.BoolVar(&preview, "preview", false, "open a live preview window instead of writing a file")

	viper.BindPFlags(flags)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if threads > 0 {
		runtime.GOMAXPROCS(threads)
	}

	s, err := loadScene(args[0])
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if len(s.Cameras) == 0 {
		return fmt.Errorf("scene %q has no cameras", args[0])
	}

	shader, err := parseShader(shaderName)
	if err != nil {
		return err
	}
	filter, err := parseFilter(filterName)
	if err != nil {
		return err
	}
	sampler, err := parseRNG(rngName)
	if err != nil {
		return err
	}

	p := render.DefaultParams()
	p.Width = width
	p.Height = height
	p.NSamples = samples
	p.ShaderType = shader
	p.FilterType = filter
	p.RNGType = sampler
	p.Seed = seed
	p.BlockSize = blockSize
	p.MinDepth = minDepth
	p.MaxDepth = maxDepth
	p.PixelClamp = pixelClamp
	p.Parallel = true
	p.Logger = logger

	if preview {
		_, err := viewer.Run(s, p)
		return err
	}

	img := render.TraceImage(s, p)
	logger.Info("render complete", "width", p.Width, "height", p.Height, "samples", p.NSamples)
	return writePNG(outPath, img)
}

func loadScene(path string) (*scene.Scene, error) {
	s := &scene.Scene{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		if err := lio.LoadOBJ(s, path); err != nil {
			return nil, err
		}
	case ".gltf", ".glb":
		if err := lio.LoadGLTF(s, path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported scene format %q", ext)
	}
	return s, nil
}

func parseShader(name string) (integrator.ShaderKind, error) {
	switch name {
	case "pathtrace":
		return integrator.ShaderPathtrace, nil
	case "pathtrace-nomis":
		return integrator.ShaderPathtraceNoMIS, nil
	case "direct":
		return integrator.ShaderDirect, nil
	case "eyelight":
		return integrator.ShaderEyelight, nil
	case "normal":
		return integrator.ShaderDebugNormal, nil
	case "albedo":
		return integrator.ShaderDebugAlbedo, nil
	case "texcoord":
		return integrator.ShaderDebugTexcoord, nil
	}
	return 0, fmt.Errorf("unknown shader %q", name)
}

func parseFilter(name string) (render.FilterKind, error) {
	switch name {
	case "box":
		return render.FilterBox, nil
	case "triangle":
		return render.FilterTriangle, nil
	case "cubic":
		return render.FilterCubic, nil
	case "catmullrom":
		return render.FilterCatmullRom, nil
	case "mitchell":
		return render.FilterMitchell, nil
	}
	return 0, fmt.Errorf("unknown filter %q", name)
}

func parseRNG(name string) (rng.RNGKind, error) {
	switch name {
	case "uniform":
		return rng.KindUniform, nil
	case "stratified":
		return rng.KindStratified, nil
	}
	return 0, fmt.Errorf("unknown rng %q", name)
}

// writePNG tonemaps img's linear-light accumulation (Reinhard, matching the
// preview window's curve) and gamma-encodes it to sRGB before writing a PNG.
func writePNG(path string, img *render.Image) error {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.Set(x, y, color.RGBA{
				R: toSRGB8(c.X),
				G: toSRGB8(c.Y),
				B: toSRGB8(c.Z),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, out)
}

func toSRGB8(linear float32) uint8 {
	mapped := linear / (1 + linear)
	if mapped < 0 {
		mapped = 0
	}
	if mapped > 1 {
		mapped = 1
	}
	encoded := float32(stdmath.Pow(float64(mapped), 1/2.2))
	return uint8(encoded*255 + 0.5)
}
