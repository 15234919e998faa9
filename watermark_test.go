package watermark

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/yyyoichi/watermark_dct/internal/code"
	"github.com/yyyoichi/watermark_dct/internal/score"
)

func gradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(64 + x + y), uint8(80 + 2*y), uint8(120 + x), 255})
		}
	}
	return img
}

// halfMark is black on the left half and white on the right half.
func halfMark() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := 32; x < 64; x++ {
			img.Pix[y*64+x] = 0xff
		}
	}
	return img
}

func grayPixels(t *testing.T, img image.Image) []uint8 {
	t.Helper()
	b := img.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultKey), w.key)
	assert.Equal(t, DefaultSearchDepth, w.depth)
	assert.Equal(t, DefaultBaseOffset, w.baseOffset)
	assert.Equal(t, score.DefaultWeights(), w.weights)
	assert.GreaterOrEqual(t, w.workers, 1)
	assert.Equal(t, zerolog.Disabled, w.logger.GetLevel())

	for _, depth := range []int{0, 1, 65} {
		_, err := New(WithSearchDepth(depth))
		assert.ErrorIs(t, err, ErrInvalidDepth, "depth=%d", depth)
	}
	w, err = New(WithSearchDepth(2), WithKey(0), WithBaseOffset(0), WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 2, w.depth)
	assert.Equal(t, uint64(0), w.key)
	assert.Equal(t, 0, w.baseOffset)
	assert.Equal(t, 3, w.workers)
}

func TestEmbedExtract(t *testing.T) {
	ctx := context.Background()
	src := gradient(64, 48)
	w, err := New(WithKey(1234), WithWorkers(2))
	require.NoError(t, err)

	res, err := w.Embed(ctx, src, halfMark())
	require.NoError(t, err)

	parsed, err := code.Parse(res.Code)
	require.NoError(t, err)
	assert.Equal(t, res.Params, parsed)
	assert.Equal(t, 48, parsed.Height)
	assert.Equal(t, 64, parsed.Width)
	assert.Equal(t, 63, parsed.Raw)
	assert.Equal(t, int(res.Channel), parsed.Channel)
	assert.Equal(t, int(res.Filter), parsed.Filter)
	assert.Equal(t, res.Strength, parsed.Strength)
	assert.Equal(t, uint64(1234), parsed.CryptedKey^parsed.ContentKey)

	assert.Greater(t, res.PSNR.Recovered, score.DisplayCeiling)
	assert.Greater(t, res.PSNR.Mark, 10.0)
	assert.Greater(t, res.PSNR.Watermarked, 20.0)
	assert.Less(t, res.PSNR.Watermarked, score.DisplayCeiling)

	want := make([]uint8, 48)
	for i := range want {
		if i%8 >= 4 {
			want[i] = 0xff
		}
	}
	assert.Equal(t, want, grayPixels(t, res.Mark))

	t.Run("extract", func(t *testing.T) {
		ex, err := w.Extract(ctx, res.Image, res.Code)
		require.NoError(t, err)
		assert.True(t, ex.Consistent)
		assert.Equal(t, uint64(1234), ex.Key)
		assert.Greater(t, PSNR(src, ex.Image), score.DisplayCeiling)
		assert.Equal(t, want, grayPixels(t, ex.Mark))
	})

	t.Run("key_ignored_on_extract", func(t *testing.T) {
		ex, err := Extract(ctx, res.Image, res.Code, WithKey(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(1234), ex.Key)
	})

	t.Run("inconsistent_code", func(t *testing.T) {
		c := res.Params
		c.ContentKey++
		c.CryptedKey = 1234 ^ c.ContentKey
		s, err := c.Encode()
		require.NoError(t, err)

		var buf bytes.Buffer
		ex, err := Extract(ctx, res.Image, s, WithLogger(zerolog.New(&buf)))
		require.NoError(t, err)
		assert.False(t, ex.Consistent)
		assert.Contains(t, buf.String(), "content checksum does not match")

		// forcing trusts the tampered checksum, which still pairs with its crypted key
		forced, err := Extract(ctx, res.Image, s, WithForce(true))
		require.NoError(t, err)
		assert.False(t, forced.Consistent)
		assert.Equal(t, uint64(1234), forced.Key)
		assert.Equal(t, want, grayPixels(t, forced.Mark))
	})

	t.Run("resize", func(t *testing.T) {
		_, err := Extract(ctx, res.Image, res.Code, WithResize(true))
		assert.ErrorIs(t, err, ErrResizeRequiresForce)

		large := image.NewNRGBA(image.Rect(0, 0, 96, 72))
		draw.CatmullRom.Scale(large, large.Bounds(), res.Image, res.Image.Bounds(), draw.Src, nil)
		ex, err := Extract(ctx, large, res.Code, WithResize(true), WithForce(true))
		require.NoError(t, err)
		assert.Equal(t, image.Pt(64, 48), ex.Image.Bounds().Size())
		assert.Equal(t, image.Pt(8, 6), ex.Mark.Bounds().Size())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := w.Extract(ctx, res.Image, "12ab34")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestEmbed_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Embed(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)), nil)
		assert.ErrorIs(t, err, ErrTooSmallImage)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Embed(ctx, gradient(16, 16), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("invalid_option", func(t *testing.T) {
		_, err := Embed(context.Background(), gradient(16, 16), nil, WithSearchDepth(100))
		assert.ErrorIs(t, err, ErrInvalidDepth)
	})
}

func TestEmbed_Progress(t *testing.T) {
	var fractions []float64
	_, err := Embed(context.Background(), gradient(24, 16), nil,
		WithProgress(func(f float64) { fractions = append(fractions, f) }),
	)
	require.NoError(t, err)
	require.NotEmpty(t, fractions)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
}

func TestSaveBundle(t *testing.T) {
	ctx := context.Background()
	res, err := Embed(ctx, gradient(16, 16), nil)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	require.NoError(t, res.SaveBundle(dir))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, "image.png"))
	text, err := os.ReadFile(filepath.Join(dir, "code.txt"))
	require.NoError(t, err)
	assert.Equal(t, res.Code, string(text))

	ex, err := Extract(ctx, res.Image, res.Code)
	require.NoError(t, err)
	require.NoError(t, ex.SaveBundle(dir))
	assert.FileExists(t, filepath.Join(dir, "image.png"))
	assert.FileExists(t, filepath.Join(dir, "watermark.png"))
	assert.NoFileExists(t, filepath.Join(dir, "code.txt"))
}

func TestPSNR(t *testing.T) {
	a := gradient(8, 8)
	assert.Equal(t, 999999.0, DisplayPSNR(PSNR(a, a)))
	assert.Equal(t, 0.0, PSNR(a, gradient(4, 16)))
}
