package watermark

import (
	"github.com/yyyoichi/watermark_dct/internal/dct"
	"github.com/yyyoichi/watermark_dct/internal/scramble"
)

// Recovery is the output of one extraction.
type Recovery struct {
	// Plane is the recovered channel with the filter bias removed.
	Plane []uint8
	// Mark is the recovered watermark as 0/1 bits over the patch grid.
	Mark *Mark
}

// Params describes where and how a watermark was embedded.
type Params struct {
	Raw  int
	Bias uint8
	Key  uint64
}

// ExtractSearch recovers every candidate plane of a strength ladder.
// planes[i] must have been embedded with ladder[i].
func ExtractSearch(d *dct.DCT, planes [][]uint8, ladder []int, width, height int, p Params) []Recovery {
	out := make([]Recovery, len(planes))
	for i, plane := range planes {
		out[i] = extract(d, plane, float64(ladder[i]), width, height, p)
	}
	return out
}

// ExtractBlind recovers plane with a single externally supplied strength.
func ExtractBlind(d *dct.DCT, plane []uint8, t float64, width, height int, p Params) Recovery {
	return extract(d, plane, t, width, height, p)
}

func extract(d *dct.DCT, plane []uint8, t float64, width, height int, p Params) Recovery {
	cube := d.Forward(Float(plane), width, height)
	col := cube.Column(p.Raw)

	bits := make([]uint8, len(col))
	delta := make([]float64, len(col))
	for i, v := range col {
		sign := 1.0
		if v < 0 {
			sign = -1
		} else {
			bits[i] = 1
		}
		delta[i] = -sign * t
	}
	cube.AddColumn(p.Raw, delta)

	restored := XorPlane(d.Backward(cube, width, height), p.Bias)
	return Recovery{
		Plane: restored,
		Mark: &Mark{
			Rows: cube.Rows,
			Cols: cube.Cols,
			Bits: scramble.Diffuse(bits, cube.Cols, cube.Rows, p.Key),
		},
	}
}
