package scene

import (
	"bufio"
	"fmt"
	stdmath "math"
	"strconv"
	"strings"
)

// decodeRadianceHDR parses the Radiance RGBE picture format (the ".hdr"
// format written by Radiance/pic and most renderers that predate OpenEXR).
// No library in the example corpus carries an HDR/EXR codec, so this is a
// stdlib-only reader (see DESIGN.md); it supports the common
// new-style-RLE and flat scanlines, top-down or bottom-up orientation.
func decodeRadianceHDR(name string, r interface{ Read([]byte) (int, error) }) (*Texture, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("hdr %s: read header: %w", name, err)
	}
	if !strings.HasPrefix(line, "#?") {
		return nil, fmt.Errorf("hdr %s: missing magic", name)
	}

	for {
		line, err = br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("hdr %s: read header: %w", name, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
	}

	dimLine, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("hdr %s: read dims: %w", name, err)
	}
	fields := strings.Fields(dimLine)
	if len(fields) != 4 {
		return nil, fmt.Errorf("hdr %s: malformed resolution line %q", name, dimLine)
	}
	height, err1 := strconv.Atoi(fields[1])
	width, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("hdr %s: bad resolution %q", name, dimLine)
	}
	flipY := fields[0] == "-Y"

	floats := make([]float32, width*height*4)
	row := make([]byte, width*4)

	for y := 0; y < height; y++ {
		if err := readScanline(br, row, width); err != nil {
			return nil, fmt.Errorf("hdr %s: scanline %d: %w", name, y, err)
		}
		destY := y
		if !flipY {
			destY = height - 1 - y
		}
		base := destY * width * 4
		for x := 0; x < width; x++ {
			r8 := row[x]
			g8 := row[width+x]
			b8 := row[2*width+x]
			e8 := row[3*width+x]
			rr, gg, bb := rgbeToFloat(r8, g8, b8, e8)
			i := base + x*4
			floats[i] = rr
			floats[i+1] = gg
			floats[i+2] = bb
			floats[i+3] = 1
		}
	}

	return &Texture{Name: name, Width: width, Height: height, HDR: true, Floats: floats}, nil
}

// readScanline fills row with R,G,B,E planes (each width bytes), handling
// the new-style run-length-encoded scanline format (leading 2,2,hi,lo
// marker) and falling back to flat RGBE quads for old-style files.
func readScanline(br *bufio.Reader, row []byte, width int) error {
	if width < 8 || width > 0x7fff {
		return readFlatScanline(br, row, width)
	}
	hdr := make([]byte, 4)
	if _, err := readFull(br, hdr); err != nil {
		return err
	}
	if hdr[0] != 2 || hdr[1] != 2 || (int(hdr[2])<<8|int(hdr[3])) != width {
		// Old-style: the 4 bytes we just read are the first pixel.
		row[0], row[width], row[2*width], row[3*width] = hdr[0], hdr[1], hdr[2], hdr[3]
		return readFlatScanline(br, row, width-1)
	}
	for plane := 0; plane < 4; plane++ {
		x := 0
		for x < width {
			count, err := br.ReadByte()
			if err != nil {
				return err
			}
			if count > 128 {
				n := int(count) - 128
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for i := 0; i < n; i++ {
					row[plane*width+x] = v
					x++
				}
			} else {
				n := int(count)
				buf := make([]byte, n)
				if _, err := readFull(br, buf); err != nil {
					return err
				}
				copy(row[plane*width+x:], buf)
				x += n
			}
		}
	}
	return nil
}

func readFlatScanline(br *bufio.Reader, row []byte, remaining int) error {
	width := len(row) / 4
	offset := width - remaining
	for i := 0; i < remaining; i++ {
		px := make([]byte, 4)
		if _, err := readFull(br, px); err != nil {
			return err
		}
		idx := offset + i
		row[idx], row[width+idx], row[2*width+idx], row[3*width+idx] = px[0], px[1], px[2], px[3]
	}
	return nil
}

func readFull(br *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := br.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func rgbeToFloat(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	f := float32(stdmath.Ldexp(1, int(e)-136))
	return float32(r) * f, float32(g) * f, float32(b) * f
}
