package watermark

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/yyyoichi/watermark_dct/internal/score"
	"github.com/yyyoichi/watermark_dct/internal/watermark"
)

const (
	bundleImage     = "image.png"
	bundleCode      = "code.txt"
	bundleWatermark = "watermark.png"
)

// Metrics are PSNR values in dB. Identical inputs give values above
// score.DisplayCeiling; use DisplayPSNR before showing them.
type Metrics struct {
	// Watermarked compares the watermarked image with the host.
	Watermarked float64
	// Recovered compares the recovered image with the host.
	Recovered float64
	// Mark compares the recovered watermark with the embedded one.
	Mark float64
}

// DisplayPSNR returns v, or 999999 when v is above the display ceiling of
// 1038 dB.
func DisplayPSNR(v float64) float64 {
	return score.Display(v)
}

// PSNR compares two images over every R, G and B sample. Images of different
// size yield 0.
func PSNR(a, b image.Image) float64 {
	if a.Bounds().Size() != b.Bounds().Size() {
		return 0
	}
	return score.PSNRPlanes(
		watermark.NewImageSource(a).Planes(),
		watermark.NewImageSource(b).Planes(),
	)
}

type EmbedResult struct {
	// Image is the watermarked image.
	Image image.Image
	// Recovered is the image extracted back from Image during the search.
	Recovered image.Image
	// Mark is the watermark extracted back from Image during the search.
	Mark image.Image

	Code     string
	Params   Code
	Channel  Channel
	Filter   Filter
	Strength int
	PSNR     Metrics
	Score    float64
}

// SaveBundle writes image.png and code.txt into dir. An existing dir is
// removed first.
func (r *EmbedResult) SaveBundle(dir string) error {
	if err := freshDir(dir); err != nil {
		return err
	}
	if err := savePNG(filepath.Join(dir, bundleImage), r.Image); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, bundleCode), []byte(r.Code), 0o644)
}

type ExtractResult struct {
	// Image is the recovered host image.
	Image image.Image
	// Mark is the recovered watermark.
	Mark image.Image

	Params Code
	Key    uint64
	// Consistent reports whether the content checksum of the image matched
	// the extraction code.
	Consistent bool
}

// SaveBundle writes image.png and watermark.png into dir. An existing dir is
// removed first.
func (r *ExtractResult) SaveBundle(dir string) error {
	if err := freshDir(dir); err != nil {
		return err
	}
	if err := savePNG(filepath.Join(dir, bundleImage), r.Image); err != nil {
		return err
	}
	return savePNG(filepath.Join(dir, bundleWatermark), r.Mark)
}

func freshDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
