// Package scramble diffuses binary grids with a keyed 16-bit pattern.
package scramble

import "gonum.org/v1/gonum/mathext/prng"

// PatternLen is the number of pseudo-random bits drawn per key.
const PatternLen = 16

// Pattern draws PatternLen uniform values in [-1, 1) from a Mersenne Twister
// seeded with the lower 32 bits of key and thresholds them at zero.
func Pattern(key uint64) [PatternLen]uint8 {
	src := prng.NewMT19937()
	src.Seed(key)

	var p [PatternLen]uint8
	for i := range p {
		if -1+2*float53(src) >= 0 {
			p[i] = 1
		}
	}
	return p
}

// float53 builds a double in [0, 1) from two 32-bit draws.
func float53(src *prng.MT19937) float64 {
	a := src.Uint32() >> 5
	b := src.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// Diffuse XORs every row of the row-major width x height grid with the key
// pattern, transposes, XORs every row again and transposes back. The result
// is a new grid; bits is not modified.
//
// The net effect on cell (y, x) is p[x%16] ^ p[y%16], so Diffuse is its own
// inverse for every grid shape.
func Diffuse(bits []uint8, width, height int, key uint64) []uint8 {
	p := Pattern(key)
	tile := make([]uint8, PatternLen*max(width, height))
	for i := range tile {
		tile[i] = p[i%PatternLen]
	}

	out := make([]uint8, len(bits))
	copy(out, bits)
	xorRows(out, width, height, tile)
	t := transpose(out, width, height)
	xorRows(t, height, width, tile)
	return transpose(t, height, width)
}

func xorRows(grid []uint8, width, height int, tile []uint8) {
	row := tile[:width]
	for y := range height {
		line := grid[y*width : (y+1)*width]
		for x := range line {
			line[x] ^= row[x]
		}
	}
}

// transpose returns the height x width transpose of a width x height grid.
func transpose(grid []uint8, width, height int) []uint8 {
	t := make([]uint8, len(grid))
	for y := range height {
		for x := range width {
			t[x*height+y] = grid[y*width+x]
		}
	}
	return t
}
