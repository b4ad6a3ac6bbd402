package codec

import (
	"fmt"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/internal/options"
)

// wrapThreshold and wrapWindowSize adapt errs' bare sentinels into the per-call
// wrapped errors options.AtLeast/PowerOfTwoAtMost expect, without losing the
// offending value from the message.
func wrapThreshold(name string, ratio float64) error {
	return fmt.Errorf("%w: %s %v", errs.ErrInvalidThreshold, name, ratio)
}

func wrapWindowSize(n uint32) error {
	return fmt.Errorf("%w: %d", errs.ErrInvalidWindowSize, n)
}

// DefaultMinCompressionSize is MIN_SIZE from §4.6: inputs shorter than this
// always emit method=0x00, since the fixed header envelope would dominate.
const DefaultMinCompressionSize = 50

// DefaultTemplateThreshold is TEMPLATE_ONLY_RATIO from §4.6.
const DefaultTemplateThreshold = 3.0

// DefaultHybridThreshold is HYBRID_RATIO from §4.6.
const DefaultHybridThreshold = 1.1

// DefaultLZWindowBytes is the LZ77 sliding window capacity (32 KiB).
const DefaultLZWindowBytes = 32768

// maxLZWindowBytes is the largest window size the §6.4 option accepts (2^17).
const maxLZWindowBytes = 1 << 17

// Options configures a Codec's encode decision thresholds and parse
// strictness (§6.4). Construct with defaultOptions and apply Option values
// via options.Apply, the generic functional-options pattern of the
// internal/options package.
type Options struct {
	minCompressionSize uint32
	hybridThreshold    float64
	templateThreshold  float64
	lzWindowBytes      uint32
	strictParse        bool
}

func defaultOptions() Options {
	return Options{
		minCompressionSize: DefaultMinCompressionSize,
		hybridThreshold:    DefaultHybridThreshold,
		templateThreshold:  DefaultTemplateThreshold,
		lzWindowBytes:      DefaultLZWindowBytes,
		strictParse:        true,
	}
}

// WithMinCompressionSize overrides MIN_SIZE (default 50 bytes).
func WithMinCompressionSize(n uint32) options.Option[*Options] {
	return options.NoError(func(o *Options) { o.minCompressionSize = n })
}

// WithHybridThreshold overrides HYBRID_RATIO. It must be >= 1.0.
func WithHybridThreshold(ratio float64) options.Option[*Options] {
	return options.AtLeast(ratio, 1.0, wrapThreshold("hybrid_threshold", ratio), func(o *Options, v float64) {
		o.hybridThreshold = v
	})
}

// WithTemplateThreshold overrides TEMPLATE_ONLY_RATIO. It must be >= 1.0.
func WithTemplateThreshold(ratio float64) options.Option[*Options] {
	return options.AtLeast(ratio, 1.0, wrapThreshold("template_threshold", ratio), func(o *Options, v float64) {
		o.templateThreshold = v
	})
}

// WithLZWindowBytes overrides the LZ77 window capacity. It must be a power
// of two no greater than 2^17.
func WithLZWindowBytes(n uint32) options.Option[*Options] {
	return options.PowerOfTwoAtMost(n, maxLZWindowBytes, wrapWindowSize(n), func(o *Options, v uint32) {
		o.lzWindowBytes = v
	})
}

// WithStrictParse overrides strict_parse (default true): whether decode and
// extract_metadata reject unknown metadata kinds.
func WithStrictParse(strict bool) options.Option[*Options] {
	return options.NoError(func(o *Options) { o.strictParse = strict })
}
