package resize

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
	"github.com/qeesung/image2ascii/convert"
	"golang.org/x/image/draw"
)

type Resizer struct {
	resizeHandler *convert.ImageResizeHandler
}

func NewResizer() *Resizer {
	return &Resizer{
		resizeHandler: convert.NewResizeHandler().(*convert.ImageResizeHandler),
	}
}

// Fit scales img down to fit inside w×h terminal cells, keeping the
// character aspect ratio used by the ASCII preview.
func (r *Resizer) Fit(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	sz := img.Bounds()
	neww, newh := r.resizeHandler.CalcFitSize(float64(w), float64(h), float64(sz.Dx()), float64(sz.Dy()))
	if neww <= 0 || newh <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return resize.Resize(uint(neww), uint(newh), img, resize.Lanczos3)
}

// Scale draws img onto a new surface of exactly w×h pixels.
func Scale(img image.Image, w, h int, filter string) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface %dx%d", w, h)
	}
	if filter == "lanczos3" {
		return resize.Resize(uint(w), uint(h), img, resize.Lanczos3), nil
	}

	interp, err := interpolator(filter)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst, nil
}

func interpolator(filter string) (draw.Interpolator, error) {
	switch filter {
	case "nearest":
		return draw.NearestNeighbor, nil
	case "approx-bilinear", "":
		return draw.ApproxBiLinear, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmull-rom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown filter %q", filter)
}
