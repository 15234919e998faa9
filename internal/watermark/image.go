package watermark

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageSource holds the 8-bit R, G and B planes of an image. Planes are
// row-major over width x height.
type ImageSource struct {
	bounds        image.Rectangle
	width, height int
	area          int

	alpha []uint8
	// R[]uint8, G[]uint8, B[]uint8
	planes [3][]uint8
}

// NewImageSource reads the straight (non-premultiplied) 8-bit samples of src.
// *image.NRGBA pixels and opaque *image.RGBA pixels are copied byte for byte.
// Translucent pixels of any other image are un-premultiplied first, which
// is lossy, so their RGB samples may differ from the stored bytes.
func NewImageSource(src image.Image) ImageSource {
	var s ImageSource
	s.bounds = src.Bounds()
	s.width, s.height = s.bounds.Dx(), s.bounds.Dy()
	s.area = s.width * s.height
	s.planes = [3][]uint8{
		make([]uint8, s.area), // R
		make([]uint8, s.area), // G
		make([]uint8, s.area), // B
	}
	s.alpha = make([]uint8, s.area)

	var pixel func(x, y int) color.NRGBA
	switch img := src.(type) {
	case *image.NRGBA:
		pixel = func(x, y int) color.NRGBA {
			p := img.Pix[img.PixOffset(x, y):]
			return color.NRGBA{p[0], p[1], p[2], p[3]}
		}
	case *image.RGBA:
		pixel = func(x, y int) color.NRGBA {
			p := img.Pix[img.PixOffset(x, y):]
			if p[3] == 0xff {
				return color.NRGBA{p[0], p[1], p[2], p[3]}
			}
			return color.NRGBAModel.Convert(color.RGBA{p[0], p[1], p[2], p[3]}).(color.NRGBA)
		}
	default:
		pixel = func(x, y int) color.NRGBA {
			return color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
		}
	}

	idx := 0
	for y := s.bounds.Min.Y; y < s.bounds.Max.Y; y++ {
		for x := s.bounds.Min.X; x < s.bounds.Max.X; x++ {
			c := pixel(x, y)
			s.planes[0][idx] = c.R
			s.planes[1][idx] = c.G
			s.planes[2][idx] = c.B
			s.alpha[idx] = c.A
			idx++
		}
	}
	return s
}

func (s ImageSource) Width() int  { return s.width }
func (s ImageSource) Height() int { return s.height }

// Empty reports whether the image has no pixels.
func (s ImageSource) Empty() bool { return s.area == 0 }

func (s ImageSource) Copy() ImageSource {
	for i := range s.planes {
		s.planes[i] = append([]uint8(nil), s.planes[i]...)
	}
	return s
}

// Channel returns the plane of ch. The slice is shared with s.
func (s ImageSource) Channel(ch Channel) []uint8 {
	return s.planes[ch]
}

// Planes returns the three planes. The slices are shared with s.
func (s ImageSource) Planes() [3][]uint8 {
	return s.planes
}

// WithChannel returns a copy of s whose ch plane is replaced by plane. The
// other planes are shared.
func (s ImageSource) WithChannel(ch Channel, plane []uint8) ImageSource {
	s.planes[ch] = plane
	return s
}

// Xor returns the plane of ch with bias XORed into every sample.
func (s ImageSource) Xor(ch Channel, bias uint8) []uint8 {
	return XorPlane(s.planes[ch], bias)
}

// XorPlane returns a copy of plane with bias XORed into every sample.
func XorPlane(plane []uint8, bias uint8) []uint8 {
	out := make([]uint8, len(plane))
	for i, v := range plane {
		out[i] = v ^ bias
	}
	return out
}

func (s ImageSource) Build() *image.NRGBA {
	dist := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	for i := range s.area {
		dist.Pix[i*4+0] = s.planes[0][i]
		dist.Pix[i*4+1] = s.planes[1][i]
		dist.Pix[i*4+2] = s.planes[2][i]
		dist.Pix[i*4+3] = s.alpha[i]
	}
	return dist
}

// Resize scales the image to width x height with Catmull-Rom interpolation.
func (s ImageSource) Resize(width, height int) ImageSource {
	if width == s.width && height == s.height {
		return s.Copy()
	}
	dist := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dist, dist.Bounds(), s.Build(), image.Rect(0, 0, s.width, s.height), draw.Src, nil)
	return NewImageSource(dist)
}

// Float converts plane to float64 samples for the forward transform.
func Float(plane []uint8) []float64 {
	out := make([]float64, len(plane))
	for i, v := range plane {
		out[i] = float64(v)
	}
	return out
}
