package render

import (
	"context"
	"testing"

	"lumenrt/bvh"
	"lumenrt/integrator"
	"lumenrt/math"
	"lumenrt/scene"
)

func emissiveQuadScene() *scene.Scene {
	s := &scene.Scene{}
	matID := s.AddMaterial(scene.Material{
		Kind: scene.MaterialSpecularRoughness,
		Kd:   math.Vec3{X: 0.6, Y: 0.6, Z: 0.6},
		Ks:   math.Vec3{X: 0.04, Y: 0.04, Z: 0.04},
		Rs:   0.5,
		Ke:   math.Vec3{X: 8, Y: 8, Z: 8},
		Op:   1,
	})
	sh := scene.Shape{
		Kind:  scene.ElementQuads,
		Quads: [][4]int32{{0, 1, 2, 3}},
		Positions: []math.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: -1, Y: 1, Z: 0},
		},
		Material: matID,
	}
	bvh.BuildShapeBVH(&sh, true)
	shID := s.AddShape(sh)
	s.AddInstance(scene.Instance{Frame: math.FrameIdentity(), Shape: shID})
	bvh.BuildSceneBVH(s, true)
	bvh.UpdateLights(s, false)

	s.Cameras = append(s.Cameras, scene.Camera{
		Frame:  math.FrameLookAt(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{}, math.Vec3{X: 0, Y: 1, Z: 0}),
		Yfov:   0.8,
		Aspect: 1,
	})
	return s
}

func TestBlocksCoversImageExactly(t *testing.T) {
	blocks := Blocks(10, 7, 4)
	covered := make([][]bool, 7)
	for y := range covered {
		covered[y] = make([]bool, 10)
	}
	for _, b := range blocks {
		for y := b.Y0; y < b.Y1; y++ {
			for x := b.X0; x < b.X1; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one block", x, y)
				}
				covered[y][x] = true
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) never covered by any block", x, y)
			}
		}
	}
}

func TestImageAccumulateIsOrderIndependentAverage(t *testing.T) {
	img := NewImage(1, 1)
	img.Accumulate(0, 0, math.Vec3{X: 1, Y: 0, Z: 0}, 1, 1)
	img.Accumulate(0, 0, math.Vec3{X: 0, Y: 1, Z: 0}, 1, 1)
	got := img.At(0, 0)
	if got.X != 0.5 || got.Y != 0.5 {
		t.Errorf("expected averaged pixel (0.5,0.5,_), got %v", got)
	}
}

func TestFilterWeightZeroOutsideSupport(t *testing.T) {
	f := NewFilter(FilterTriangle)
	if f.Weight(5, 0) != 0 {
		t.Error("expected zero weight outside triangle filter's support")
	}
	if f.Weight(0, 0) <= 0 {
		t.Error("expected positive weight at filter center")
	}
}

func TestTraceImageProducesFiniteAccumulation(t *testing.T) {
	s := emissiveQuadScene()
	p := DefaultParams()
	p.Width = 8
	p.Height = 8
	p.NSamples = 4
	p.ShaderType = integrator.ShaderEyelight
	p.Parallel = true

	img := TraceImage(s, p)
	center := img.At(4, 4)
	if center.W <= 0 {
		t.Error("expected the image center to report a hit")
	}
	if center.X < 0 || center.X != center.X {
		t.Errorf("expected finite non-negative radiance, got %v", center.X)
	}
}

func TestTraceSamplesRespectsContextCancellation(t *testing.T) {
	s := emissiveQuadScene()
	p := DefaultParams()
	p.Width = 4
	p.Height = 4
	p.NSamples = 1
	p.Parallel = false
	img := NewImage(p.Width, p.Height)
	rngs := TraceRngs(p.Width, p.Height, p.Seed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := TraceSamples(ctx, s, img, 0, p.NSamples, rngs, p)
	if err == nil {
		t.Error("expected a cancelled context to produce an error")
	}
}

func TestTraceAsyncStartStopDeliversSamples(t *testing.T) {
	s := emissiveQuadScene()
	p := DefaultParams()
	p.Width = 4
	p.Height = 4
	p.NSamples = 3
	p.ShaderType = integrator.ShaderEyelight
	p.Parallel = true
	img := NewImage(p.Width, p.Height)
	rngs := TraceRngs(p.Width, p.Height, p.Seed)

	delivered := make(chan int, p.NSamples)
	ex := NewExecutor(2)
	TraceAsyncStart(s, img, rngs, p, ex, func(si int) { delivered <- si })

	for i := 0; i < p.NSamples; i++ {
		<-delivered
	}
	TraceAsyncStop(ex)
}

func TestExecutorRunPropagatesFirstError(t *testing.T) {
	ex := NewExecutor(2)
	sentinel := context.Canceled
	err := ex.Run(context.Background(), []func(context.Context) error{
		func(context.Context) error { return nil },
		func(context.Context) error { return sentinel },
	})
	if err != sentinel {
		t.Errorf("expected the injected error to propagate, got %v", err)
	}
}
