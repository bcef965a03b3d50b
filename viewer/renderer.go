package viewer

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"lumenrt/render"
)

// blitVertSrc/blitFragSrc draw one fullscreen triangle and sample the
// preview texture; tonemapping is a flat Reinhard curve so fireflies from
// an unconverged render don't blow out the display.
const blitVertSrc = `
#version 410 core
out vec2 fragUV;

void main() {
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    fragUV = pos;
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

const blitFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

uniform sampler2D preview;

void main() {
    vec3 c = texture(preview, vec2(fragUV.x, 1.0 - fragUV.y)).rgb;
    vec3 mapped = c / (c + vec3(1.0));
    outColor = vec4(mapped, 1.0);
}
` + "\x00"

// Renderer blits a progressively-updated render.Image to the screen as a
// single textured fullscreen triangle.
type Renderer struct {
	program     uint32
	vao         uint32
	texture     uint32
	texW, texH  int
	previewLoc  int32
	pixelScratch []float32
}

// NewRenderer compiles the blit shader and allocates the preview texture's
// VAO/texture object. Must run after the window's GL context is current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	prog, err := newProgram(blitVertSrc, blitFragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Renderer{
		program:    prog,
		vao:        vao,
		texture:    tex,
		previewLoc: gl.GetUniformLocation(prog, gl.Str("preview\x00")),
	}, nil
}

// SetViewport resizes the OpenGL viewport to match the window.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Upload converts img's running-average RGB accumulation into the preview
// texture, reallocating the GPU texture storage if img's size changed.
func (r *Renderer) Upload(img *render.Image) {
	if len(r.pixelScratch) != img.Width*img.Height*3 {
		r.pixelScratch = make([]float32, img.Width*img.Height*3)
	}
	for i, px := range img.Pixels {
		r.pixelScratch[i*3+0] = px.X
		r.pixelScratch[i*3+1] = px.Y
		r.pixelScratch[i*3+2] = px.Z
	}

	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	if r.texW != img.Width || r.texH != img.Height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F,
			int32(img.Width), int32(img.Height), 0,
			gl.RGB, gl.FLOAT, unsafe.Pointer(&r.pixelScratch[0]))
		r.texW, r.texH = img.Width, img.Height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
			int32(img.Width), int32(img.Height),
			gl.RGB, gl.FLOAT, unsafe.Pointer(&r.pixelScratch[0]))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Draw clears the framebuffer and blits the current preview texture.
func (r *Renderer) Draw() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.Uniform1i(r.previewLoc, 0)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// Destroy releases the renderer's GPU resources.
func (r *Renderer) Destroy() {
	gl.DeleteTextures(1, &r.texture)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
