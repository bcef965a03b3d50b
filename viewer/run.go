package viewer

import (
	"log/slog"

	"lumenrt/render"
	"lumenrt/scene"
)

// Run opens a preview window, starts a progressive render of s under p, and
// blocks until the user closes the window. The render stops after
// p.NSamples samples while the window stays open. It returns the image
// accumulated by the time the window was closed.
func Run(s *scene.Scene, p render.Params) (*render.Image, error) {
	cfg := DefaultWindowConfig()
	cfg.Width, cfg.Height = p.Width, p.Height
	win, err := NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	defer win.Destroy()

	gr, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	defer gr.Destroy()

	fbw, fbh := win.GetFramebufferSize()
	gr.SetViewport(fbw, fbh)

	img := render.NewImage(p.Width, p.Height)
	rngs := render.TraceRngs(p.Width, p.Height, p.Seed)

	refresh := make(chan struct{}, 1)
	ex := render.NewExecutor(0)
	render.TraceAsyncStart(s, img, rngs, p, ex, func(sampleIndex int) {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	defer render.TraceAsyncStop(ex)

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("preview started", "width", p.Width, "height", p.Height, "samples", p.NSamples)

	for !win.ShouldClose() {
		win.PollEvents()
		select {
		case <-refresh:
			gr.Upload(img)
		default:
		}
		gr.Draw()
		win.SwapBuffers()
	}

	return img, nil
}
