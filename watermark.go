package watermark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yyyoichi/watermark_dct/internal/code"
	"github.com/yyyoichi/watermark_dct/internal/dct"
	"github.com/yyyoichi/watermark_dct/internal/score"
	"github.com/yyyoichi/watermark_dct/internal/watermark"
)

var (
	ErrTooSmallImage       = errors.New("image is too small for embedding or extracting")
	ErrInvalidDepth        = errors.New("search depth out of range")
	ErrResizeRequiresForce = errors.New("resize before extraction requires force")
	ErrInvalidCode         = code.ErrMalformed
	ErrCodeOverflow        = code.ErrOverflow
)

const (
	DefaultKey         = 7777
	DefaultSearchDepth = 64
	DefaultBaseOffset  = 2
	MinSearchDepth     = 2
	MaxSearchDepth     = 64
)

type (
	// Channel identifies the colour plane carrying the watermark.
	Channel = watermark.Channel
	// Filter identifies the bias XORed into the channel before embedding.
	Filter = watermark.Filter
	// Code holds the parameters of an extraction code.
	Code = code.Code
)

// ParseCode decodes an extraction code string.
func ParseCode(s string) (Code, error) {
	return code.Parse(s)
}

// Embed embeds mark into src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Embed method.
func Embed(ctx context.Context, src, mark image.Image, opts ...Option) (*EmbedResult, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Embed(ctx, src, mark)
}

// Extract recovers the host image and watermark from src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Extract method.
func Extract(ctx context.Context, src image.Image, extractionCode string, opts ...Option) (*ExtractResult, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Extract(ctx, src, extractionCode)
}

type Watermark struct {
	key        uint64
	depth      int
	baseOffset int
	weights    score.Weights
	workers    int
	progress   func(float64)
	force      bool
	resize     bool
	logger     zerolog.Logger

	dctCache *dct.Cache
}

// New initializes a watermark processing structure.
// For default values, refer to the init function.
func New(opts ...Option) (*Watermark, error) {
	w := new(Watermark)
	if err := w.init(opts...); err != nil {
		return nil, err
	}
	return w, nil
}

// Embed embeds mark into src. A nil mark embeds an all-white watermark.
//
// Process:
//  1. Binarizes the watermark and resizes it to the 8x8 patch grid of src.
//  2. Diffuses the watermark bits with the key.
//  3. For every searched (filter, channel) pair, XORs the filter bias into
//     the channel and transforms it patch by patch.
//  4. Picks the top strength from the peak amplitude of the chosen
//     coefficient and embeds the watermark at every strength of the ladder.
//  5. Extracts each candidate again and scores it.
//  6. Keeps the best strength per pair, then the best pair.
//  7. Serializes the winning parameters into the extraction code.
//
// Returns an error if src has no pixels or ctx is cancelled.
func (w *Watermark) Embed(ctx context.Context, src, mark image.Image) (*EmbedResult, error) {
	img := watermark.NewImageSource(src)
	if img.Empty() {
		return nil, ErrTooSmallImage
	}
	w.report(0.1)

	var (
		width, height = img.Width(), img.Height()
		rows          = (height + watermark.PatchSize - 1) / watermark.PatchSize
		cols          = (width + watermark.PatchSize - 1) / watermark.PatchSize
		raw           = watermark.Zigzag(w.depth - 1)
		d             = w.dctCache.New(watermark.PatchSize)
	)
	if mark == nil {
		mark = watermark.DefaultMarkImage()
	}
	m := watermark.NewMark(mark, rows, cols)
	norm := m.Normalize(w.key)
	w.logger.Debug().Int("width", width).Int("height", height).Int("rows", rows).Int("cols", cols).Int("raw", raw).Msg("prepared watermark")
	w.report(0.25)

	targets := watermark.Targets()
	found := make([]candidate, len(targets))
	var (
		mu   sync.Mutex
		done int
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, target := range targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found[i] = w.search(d, img, target, m, norm, raw)

			mu.Lock()
			defer mu.Unlock()
			done++
			w.report(0.25 + 0.65*float64(done)/float64(len(targets)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	metrics := make([]score.Candidate, len(found))
	for i, c := range found {
		metrics[i] = c.metrics
	}
	chosen := found[score.PickBest(metrics, w.weights)]

	checksum := watermark.ContentChecksum(chosen.embedded)
	c := code.Code{
		Height:     height,
		Width:      width,
		Channel:    int(chosen.target.Channel),
		Filter:     int(chosen.target.Filter),
		Raw:        raw,
		Strength:   chosen.strength,
		CryptedKey: w.key ^ checksum,
		ContentKey: checksum,
	}
	s, err := c.Encode()
	if err != nil {
		return nil, err
	}
	w.logger.Debug().
		Stringer("channel", chosen.target.Channel).
		Stringer("filter", chosen.target.Filter).
		Int("strength", chosen.strength).
		Float64("score", score.Total(chosen.metrics, w.weights)).
		Msg("selected candidate")
	w.report(1)

	return &EmbedResult{
		Image:     chosen.embedded.Build(),
		Recovered: chosen.recovered.Build(),
		Mark:      chosen.mark.Image(),
		Code:      s,
		Params:    c,
		Channel:   chosen.target.Channel,
		Filter:    chosen.target.Filter,
		Strength:  chosen.strength,
		PSNR: Metrics{
			Watermarked: chosen.metrics.Imperceptibility,
			Recovered:   chosen.metrics.Recovered,
			Mark:        chosen.metrics.Mark,
		},
		Score: score.Total(chosen.metrics, w.weights),
	}, nil
}

type candidate struct {
	target    watermark.Target
	strength  int
	embedded  watermark.ImageSource
	recovered watermark.ImageSource
	mark      *watermark.Mark
	metrics   score.Candidate
}

// search embeds and re-extracts every strength of the ladder for target and
// returns the best scoring one.
func (w *Watermark) search(d *dct.DCT, img watermark.ImageSource, target watermark.Target, m *watermark.Mark, norm []float64, raw int) candidate {
	var (
		width, height = img.Width(), img.Height()
		bias          = target.Filter.Bias()
	)
	cube := d.Forward(watermark.Float(img.Xor(target.Channel, bias)), width, height)
	_, t := watermark.ChooseStrength(cube, raw, w.baseOffset)
	ladder := watermark.Ladder(t)

	planes := watermark.Embed(d, cube, norm, raw, ladder, width, height)
	recs := watermark.ExtractSearch(d, planes, ladder, width, height, watermark.Params{
		Raw:  raw,
		Bias: bias,
		Key:  w.key,
	})

	reference := m.Samples()
	cs := make([]candidate, len(ladder))
	metrics := make([]score.Candidate, len(ladder))
	for i, strength := range ladder {
		embedded := img.WithChannel(target.Channel, planes[i])
		recovered := img.WithChannel(target.Channel, recs[i].Plane)
		metrics[i] = score.Candidate{
			Imperceptibility: score.PSNRPlanes(img.Planes(), embedded.Planes()),
			Recovered:        score.PSNRPlanes(img.Planes(), recovered.Planes()),
			Mark:             score.PSNR(reference, recs[i].Mark.Samples()),
			Bias:             bias,
		}
		cs[i] = candidate{
			target:    target,
			strength:  strength,
			embedded:  embedded,
			recovered: recovered,
			mark:      recs[i].Mark,
			metrics:   metrics[i],
		}
	}
	best := score.PickBest(metrics, w.weights)
	w.logger.Debug().
		Stringer("channel", target.Channel).
		Stringer("filter", target.Filter).
		Ints("ladder", ladder).
		Int("strength", ladder[best]).
		Msg("searched strengths")
	return cs[best]
}

// Extract recovers the host image and the watermark from src using an
// extraction code produced by Embed.
//
// The key is the crypted key of the code XORed with the content checksum.
// Unless force is set, the checksum is recomputed from src; a mismatch with
// the code is logged and reported through ExtractResult.Consistent.
func (w *Watermark) Extract(ctx context.Context, src image.Image, extractionCode string) (*ExtractResult, error) {
	c, err := code.Parse(extractionCode)
	if err != nil {
		return nil, err
	}
	if w.resize && !w.force {
		return nil, ErrResizeRequiresForce
	}
	img := watermark.NewImageSource(src)
	if img.Empty() {
		return nil, ErrTooSmallImage
	}
	if w.resize {
		if c.Width == 0 || c.Height == 0 {
			return nil, fmt.Errorf("%w: code dimensions %dx%d", ErrTooSmallImage, c.Width, c.Height)
		}
		img = img.Resize(c.Width, c.Height)
		w.logger.Debug().Int("width", c.Width).Int("height", c.Height).Msg("resized image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.report(0.1)

	checksum := watermark.ContentChecksum(img)
	consistent := checksum == c.ContentKey
	content := checksum
	if w.force {
		content = c.ContentKey
	}
	if !consistent {
		w.logger.Warn().
			Uint64("expected", c.ContentKey).
			Uint64("actual", checksum).
			Bool("force", w.force).
			Msg("content checksum does not match the extraction code")
	}
	key := c.CryptedKey ^ content
	w.report(0.5)

	var (
		channel = watermark.Channel(c.Channel)
		filter  = watermark.Filter(c.Filter)
		d       = w.dctCache.New(watermark.PatchSize)
	)
	rec := watermark.ExtractBlind(d, img.Channel(channel), float64(c.Strength), img.Width(), img.Height(), watermark.Params{
		Raw:  c.Raw,
		Bias: filter.Bias(),
		Key:  key,
	})
	w.logger.Debug().Stringer("channel", channel).Stringer("filter", filter).Int("strength", c.Strength).Msg("extracted watermark")
	w.report(1)

	return &ExtractResult{
		Image:      img.WithChannel(channel, rec.Plane).Build(),
		Mark:       rec.Mark.Image(),
		Params:     c,
		Key:        key,
		Consistent: consistent,
	}, nil
}

func (w *Watermark) report(fraction float64) {
	if w.progress != nil {
		w.progress(fraction)
	}
}

func (w *Watermark) init(opts ...Option) error {
	w.key = DefaultKey
	w.depth = DefaultSearchDepth
	w.baseOffset = DefaultBaseOffset
	w.weights = score.DefaultWeights()
	w.logger = zerolog.Nop()
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return err
		}
	}
	if w.workers < 1 {
		w.workers = runtime.GOMAXPROCS(0)
	}
	if w.dctCache == nil {
		w.dctCache = dct.NewCache()
	}
	return nil
}
