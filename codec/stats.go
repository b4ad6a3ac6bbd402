package codec

import (
	"sync"

	"github.com/arloliu/aura/format"
)

// CompressionStats accumulates per-method counts and byte totals across every
// Compress call a Codec has serviced, mirroring the teacher's
// compress.CompressionStats (CompressionRatio/SpaceSavings) but shaped around
// the container's three methods instead of a single algorithm, so callers can
// wire it into metrics without re-deriving anything from container bytes.
type CompressionStats struct {
	// TotalCalls is the number of Compress calls observed.
	TotalCalls int64

	// FallbackCount, TemplateOnlyCount, HybridCount are per-method call
	// counts (§4.6's three container methods).
	FallbackCount     int64
	TemplateOnlyCount int64
	HybridCount       int64

	// TotalOriginalBytes is the sum of every input's length across calls.
	TotalOriginalBytes int64

	// TotalCompressedBytes is the sum of every resulting container's
	// marshaled wire size across calls.
	TotalCompressedBytes int64
}

// CompressionRatio returns the aggregate original-to-compressed ratio
// (original bytes / compressed bytes), consistent with the TEMPLATE_ONLY_RATIO
// and HYBRID_RATIO thresholds used by Compress itself: values greater than 1.0
// indicate a net size reduction.
func (s CompressionStats) CompressionRatio() float64 {
	if s.TotalCompressedBytes == 0 {
		return 0.0
	}

	return float64(s.TotalOriginalBytes) / float64(s.TotalCompressedBytes)
}

// SpaceSavings returns the aggregate space savings as a percentage (0-100%,
// negative if the compressed form ended up larger on average).
func (s CompressionStats) SpaceSavings() float64 {
	ratio := s.CompressionRatio()
	if ratio == 0.0 {
		return 0.0
	}

	return (1.0 - 1.0/ratio) * 100.0
}

// statsAccumulator is the mutable counterpart embedded in Codec; CompressionStats
// itself stays a plain value type so callers can snapshot and pass it around
// without holding a lock.
type statsAccumulator struct {
	mu    sync.Mutex
	stats CompressionStats
}

func (a *statsAccumulator) record(method format.Method, originalSize, compressedSize int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalCalls++
	a.stats.TotalOriginalBytes += int64(originalSize)
	a.stats.TotalCompressedBytes += int64(compressedSize)

	switch method {
	case format.MethodFallback:
		a.stats.FallbackCount++
	case format.MethodTemplateOnly:
		a.stats.TemplateOnlyCount++
	case format.MethodHybrid:
		a.stats.HybridCount++
	}
}

func (a *statsAccumulator) snapshot() CompressionStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stats
}

// Stats returns a snapshot of the compression statistics accumulated across
// every Compress call this Codec has serviced so far.
func (c *Codec) Stats() CompressionStats {
	return c.stats.snapshot()
}
