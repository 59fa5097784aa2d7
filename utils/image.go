package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/spakin/netpbm"

	pc "github.com/setanarut/prettycolors"
)

// Format is an output encoding for the generated image.
type Format string

const (
	FormatPPM    Format = "ppm"     // plain P3
	FormatPPMRaw Format = "ppm-raw" // binary P6
	FormatPNG    Format = "png"
)

// ParseFormat accepts "ppm", "ppm-raw" and "png". Empty means ppm.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatPPM, nil
	case FormatPPM, FormatPPMRaw, FormatPNG:
		return f, nil
	}
	return "", pc.Errorf(pc.ErrCodeConfig, "invalid format %q (must be ppm, ppm-raw or png)", s)
}

// WriteImage encodes every grid cell, black where nothing was placed. The
// netpbm encodings record seed in a header comment.
func WriteImage(w io.Writer, g *pc.Grid, format Format, seed uint64) error {
	img := g.Image()
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatPPM, FormatPPMRaw, "":
		err = netpbm.Encode(w, img, &netpbm.EncodeOptions{
			Format:   netpbm.PPM,
			MaxValue: 255,
			Plain:    format != FormatPPMRaw,
			Comments: []string{fmt.Sprintf("seed: %d", seed)},
		})
	default:
		return pc.Errorf(pc.ErrCodeConfig, "invalid format %q", format)
	}
	if err != nil {
		return pc.Wrapf(pc.ErrCodeOutput, err, "encode %s", format)
	}
	return nil
}

// SaveGrid encodes g fully in memory before creating filename, so a failed
// encode never leaves a partial file behind.
func SaveGrid(g *pc.Grid, format Format, seed uint64, filename string) error {
	var buf bytes.Buffer
	if err := WriteImage(&buf, g, format, seed); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return pc.Wrapf(pc.ErrCodeOutput, err, "write %s", filename)
	}
	return nil
}

// ReadImage decodes any registered format, netpbm included.
func ReadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isNetpbm(data) {
		return netpbm.Decode(bytes.NewReader(data), nil)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
