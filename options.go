package watermark

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yyyoichi/watermark_dct/internal/score"
)

type Option func(*Watermark) error

// WithKey sets the seed of the scramble pattern. Only the lower 32 bits are
// used.
func WithKey(key uint64) Option {
	return func(w *Watermark) error {
		w.key = key
		return nil
	}
}

// WithSearchDepth selects the embedding coefficient by its 1-based position
// in zig-zag order. Depth must be in [2, 64].
func WithSearchDepth(depth int) Option {
	return func(w *Watermark) error {
		if depth < MinSearchDepth || depth > MaxSearchDepth {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDepth, depth, MinSearchDepth, MaxSearchDepth)
		}
		w.depth = depth
		return nil
	}
}

// WithBaseOffset sets the amount added to the peak coefficient amplitude when
// choosing the top embedding strength.
func WithBaseOffset(offset int) Option {
	return func(w *Watermark) error {
		w.baseOffset = offset
		return nil
	}
}

// WithWeights overrides the multipliers of the candidate score.
func WithWeights(weights score.Weights) Option {
	return func(w *Watermark) error {
		w.weights = weights
		return nil
	}
}

// WithWorkers bounds the number of candidates evaluated concurrently.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(w *Watermark) error {
		w.workers = n
		return nil
	}
}

// WithProgress registers a callback receiving coarse completion fractions in
// (0, 1]. It may be called from several goroutines, never concurrently.
func WithProgress(fn func(float64)) Option {
	return func(w *Watermark) error {
		w.progress = fn
		return nil
	}
}

// WithForce makes extraction trust the content checksum stored in the code
// instead of recomputing it from the image.
func WithForce(force bool) Option {
	return func(w *Watermark) error {
		w.force = force
		return nil
	}
}

// WithResize resizes the image to the dimensions stored in the code before
// extracting. It requires WithForce, since resampling changes the least
// significant bits the content checksum is computed from.
func WithResize(resize bool) Option {
	return func(w *Watermark) error {
		w.resize = resize
		return nil
	}
}

// WithLogger sets the logger receiving stage events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watermark) error {
		w.logger = logger
		return nil
	}
}
