package watermark

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/watermark_dct/internal/dct"
)

func TestEmbedExtract(t *testing.T) {
	const (
		width, height = 32, 24
		key           = 7777
	)
	d := dct.New(PatchSize)
	img := NewImageSource(gradient(width, height))

	rd := rand.New(rand.NewSource(5))
	mark := &Mark{Rows: 3, Cols: 4, Bits: make([]uint8, 12)}
	for i := range mark.Bits {
		mark.Bits[i] = uint8(rd.Intn(2))
	}
	norm := mark.Normalize(key)

	for _, target := range Targets() {
		t.Run(target.Filter.String()+"_"+target.Channel.String(), func(t *testing.T) {
			bias := target.Filter.Bias()
			biased := img.Xor(target.Channel, bias)
			cube := d.Forward(Float(biased), width, height)
			raw, tv := ChooseStrength(cube, Zigzag(63), 10)
			ladder := Ladder(tv)

			planes := Embed(d, cube, norm, raw, ladder, width, height)
			require.Len(t, planes, len(ladder))
			assert.NotEqual(t, biased, planes[0])

			p := Params{Raw: raw, Bias: bias, Key: key}
			recs := ExtractSearch(d, planes, ladder, width, height, p)
			require.Len(t, recs, len(ladder))
			// the top strength clears every coefficient peak
			assert.Equal(t, img.Channel(target.Channel), recs[0].Plane)
			assert.Equal(t, mark.Bits, recs[0].Mark.Bits)
			if target.Filter == Mask0 {
				// a linear ramp has no energy at the highest frequency
				assert.Equal(t, []int{21, 11}, ladder)
				assert.Equal(t, img.Channel(target.Channel), recs[1].Plane)
				assert.Equal(t, mark.Bits, recs[1].Mark.Bits)
			}

			blind := ExtractBlind(d, planes[0], float64(ladder[0]), width, height, p)
			assert.Equal(t, img.Channel(target.Channel), blind.Plane)
			assert.Equal(t, 3, blind.Mark.Rows)
			assert.Equal(t, 4, blind.Mark.Cols)
		})
	}
}

func TestEmbed_DoesNotModifyCube(t *testing.T) {
	d := dct.New(PatchSize)
	cube := d.Forward(Float(make([]uint8, 64)), 8, 8)
	before := cube.Clone()
	_ = Embed(d, cube, []float64{1}, 63, []int{23, 13}, 8, 8)
	assert.Equal(t, before.Coef, cube.Coef)
}
