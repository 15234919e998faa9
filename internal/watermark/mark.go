package watermark

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/yyyoichi/watermark_dct/internal/scramble"
)

// DefaultMarkSize is the edge length of the all-white watermark used when
// none is supplied.
const DefaultMarkSize = 512

// Mark is a binary watermark laid over the patch grid, one bit per block.
type Mark struct {
	Rows, Cols int
	Bits       []uint8
}

// DefaultMarkImage returns an all-white DefaultMarkSize square.
func DefaultMarkImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, DefaultMarkSize, DefaultMarkSize))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// NewMark converts src to gray, binarizes it with Otsu's threshold and
// resizes it bilinearly to cols x rows. Resized samples of 128 or more
// become 1.
func NewMark(src image.Image, rows, cols int) *Mark {
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)

	t := Otsu(gray.Pix)
	for i, v := range gray.Pix {
		if v > t {
			gray.Pix[i] = 0xff
		} else {
			gray.Pix[i] = 0
		}
	}

	small := image.NewGray(image.Rect(0, 0, cols, rows))
	draw.BiLinear.Scale(small, small.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	m := &Mark{Rows: rows, Cols: cols, Bits: make([]uint8, rows*cols)}
	for y := range rows {
		for x := range cols {
			if small.GrayAt(x, y).Y >= 128 {
				m.Bits[y*cols+x] = 1
			}
		}
	}
	return m
}

// Normalize diffuses the bits with key and maps them to -1 and +1.
func (m *Mark) Normalize(key uint64) []float64 {
	diffused := scramble.Diffuse(m.Bits, m.Cols, m.Rows, key)
	out := make([]float64, len(diffused))
	for i, v := range diffused {
		out[i] = float64(2*int(v) - 1)
	}
	return out
}

// Samples returns the bits scaled to 0 and 255.
func (m *Mark) Samples() []uint8 {
	out := make([]uint8, len(m.Bits))
	for i, v := range m.Bits {
		out[i] = v * 0xff
	}
	return out
}

func (m *Mark) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	copy(img.Pix, m.Samples())
	return img
}
