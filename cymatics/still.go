package cymatics

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

const (
	// StillSize is the width and height of a still image in pixels.
	StillSize = 800

	// DotRadius is the radius of the dot drawn for every lit point of a still image.
	DotRadius = 1.5

	// StillFilename is the conventional name of the downloadable still image.
	StillFilename = "cymatic_still_frame.png"
)

// kappa places the control points of a cubic Bézier quarter circle.
const kappa = 0.5522847498

// Still renders the pattern at t = 0 as a StillSize×StillSize image: a black background with
// one filled dot of p.Color per lit grid point.
func Still(p Params) (*image.RGBA, error) {
	frame, err := Evaluate(p, StillSize, StillSize, 0)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, StillSize, StillSize))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	z := vector.NewRasterizer(StillSize, StillSize)
	for j := 0; j < GridSize; j++ {
		for i := 0; i < GridSize; i++ {
			if frame.Lit(i, j) {
				x, y := frame.Point(i, j)
				dot(z, float32(x), float32(y), DotRadius)
			}
		}
	}
	z.Draw(img, img.Bounds(), image.NewUniform(p.Color), image.Point{})
	return img, nil
}

// EncodePNG renders the still image of p and writes it to w as PNG. Nothing is written if
// rendering fails.
func EncodePNG(w io.Writer, p Params) error {
	img, err := Still(p)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "cymatics")
}

func dot(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
