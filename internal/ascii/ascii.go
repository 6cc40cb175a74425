package ascii

import (
	"image"
	"image/color"
	"strings"

	"github.com/qeesung/image2ascii/ascii"
)

type Converter struct {
	pixelConverter ascii.PixelConverter
	options        ascii.Options
}

func NewConverter(colored bool) *Converter {
	opts := ascii.DefaultOptions
	opts.Colored = colored
	return &Converter{
		pixelConverter: ascii.NewPixelConverter(),
		options:        opts,
	}
}

// Lines renders img as one string per pixel row.
func (c *Converter) Lines(img image.Image) []string {
	sz := img.Bounds()

	rows := make([]string, 0, sz.Dy())
	for y := sz.Min.Y; y < sz.Max.Y; y++ {
		b := new(strings.Builder)
		for x := sz.Min.X; x < sz.Max.X; x++ {
			pixel := color.NRGBAModel.Convert(img.At(x, y))
			b.WriteString(c.pixelConverter.ConvertPixelToASCII(pixel, &c.options))
		}
		rows = append(rows, b.String())
	}
	return rows
}
