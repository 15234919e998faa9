package watermark

// ContentChecksum sums, over every pixel and channel, the product of the
// sample's least significant bit and the least significant bit of its
// horizontal mirror.
func ContentChecksum(s ImageSource) uint64 {
	var sum uint64
	for _, plane := range s.planes {
		for y := range s.height {
			row := plane[y*s.width : (y+1)*s.width]
			for x, v := range row {
				sum += uint64(v & row[s.width-1-x] & 1)
			}
		}
	}
	return sum
}
