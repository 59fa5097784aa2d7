package utils

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"

	"github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	pc "github.com/setanarut/prettycolors"
)

// ReadMask loads a template mask level from path. The raster must be
// single-channel and exactly w x h.
func ReadMask(path string, w, h int) (*pc.TemplateMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pc.Wrapf(pc.ErrCodeTemplate, err, "open template")
	}
	defer f.Close()
	return DecodeMask(f, path, w, h)
}

// DecodeMask reads a netpbm (PBM, PGM, PAM), PNG, BMP or TIFF raster and
// turns nonzero samples into eligible cells. For PBM the set bit is the
// nonzero sample, which netpbm renders as black.
func DecodeMask(r io.Reader, name string, w, h int) (*pc.TemplateMask, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pc.Wrapf(pc.ErrCodeTemplate, err, "%s: read", name)
	}

	var img image.Image
	inverted := false
	if isNetpbm(data) {
		nimg, err := netpbm.Decode(bytes.NewReader(data), nil)
		if err != nil {
			return nil, pc.Wrapf(pc.ErrCodeTemplate, err, "%s: decode", name)
		}
		img = nimg
		inverted = nimg.Format() == netpbm.PBM
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, pc.Wrapf(pc.ErrCodeTemplate, err, "%s: decode", name)
		}
	}

	b := img.Bounds()
	if b.Dx() != w {
		return nil, pc.Errorf(pc.ErrCodeTemplate, "%s: width must be %d, not %d", name, w, b.Dx())
	}
	if b.Dy() != h {
		return nil, pc.Errorf(pc.ErrCodeTemplate, "%s: height must be %d, not %d", name, h, b.Dy())
	}
	if d := channelDepth(img); d != 1 {
		return nil, pc.Errorf(pc.ErrCodeTemplate, "%s: depth must be 1, not %d", name, d)
	}

	cells := make([]bool, w*h)
	for y := range h {
		for x := range w {
			v := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y
			cells[y*w+x] = (v != 0) != inverted
		}
	}
	return &pc.TemplateMask{Path: name, W: w, H: h, Cells: cells}, nil
}

func isNetpbm(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '7'
}

// channelDepth counts samples per pixel: 1 for gray, 3 for color, plus one
// for alpha.
func channelDepth(img image.Image) int {
	depth := 3
	if isGrayModel(img.ColorModel()) {
		depth = 1
	}
	if hasAlpha(img) {
		depth++
	}
	return depth
}

func isGrayModel(m color.Model) bool {
	r, g, b, _ := m.Convert(color.RGBA{R: 0xff, A: 0xff}).RGBA()
	return r == g && g == b
}

func hasAlpha(img image.Image) bool {
	if n, ok := img.(netpbm.Image); ok {
		return n.HasAlpha()
	}
	_, _, _, a := img.ColorModel().Convert(color.Transparent).RGBA()
	return a != 0xffff
}
