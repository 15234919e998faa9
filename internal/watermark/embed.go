package watermark

import "github.com/yyyoichi/watermark_dct/internal/dct"

// Embed adds mark[i]*T' to the coefficient at raw of block i for every
// strength T' of ladder and reconstructs one width x height plane per
// strength. mark holds -1 or +1 per block and must match cube.Blocks().
// cube is not modified.
func Embed(d *dct.DCT, cube *dct.Cube, mark []float64, raw int, ladder []int, width, height int) [][]uint8 {
	planes := make([][]uint8, len(ladder))
	delta := make([]float64, len(mark))
	for i, t := range ladder {
		for j, v := range mark {
			delta[j] = v * float64(t)
		}
		c := cube.Clone()
		c.AddColumn(raw, delta)
		planes[i] = d.Backward(c, width, height)
	}
	return planes
}
