package occurrence

import (
	"fmt"
	"math"

	"github.com/cognicore/textmark/pkg/textmark/internalerr"
)

// Scale maps character offsets of a text of Length runes linearly onto
// [Margin, Extent-Margin].
type Scale struct {
	Length int
	Extent float64
	Margin float64
}

// NewScale validates the axis geometry.
func NewScale(length int, extent, margin float64) (Scale, error) {
	if length < 0 {
		return Scale{}, fmt.Errorf("length %d: %w", length, internalerr.ErrInvalidConfig)
	}
	if math.IsNaN(extent) || math.IsInf(extent, 0) || math.IsNaN(margin) || math.IsInf(margin, 0) {
		return Scale{}, fmt.Errorf("map extent %v / margin %v must be finite: %w", extent, margin, internalerr.ErrInvalidConfig)
	}
	if extent <= 0 {
		return Scale{}, fmt.Errorf("map extent %v must be positive: %w", extent, internalerr.ErrInvalidConfig)
	}
	if margin < 0 || 2*margin > extent {
		return Scale{}, fmt.Errorf("map margin %v does not fit extent %v: %w", margin, extent, internalerr.ErrInvalidConfig)
	}
	return Scale{Length: length, Extent: extent, Margin: margin}, nil
}

// Map returns the axis coordinate of pos. Positions outside [0, Length] are
// clamped, so Map is monotonic over all ints.
func (s Scale) Map(pos int) float64 {
	if s.Length == 0 || pos <= 0 {
		return s.Margin
	}
	if pos > s.Length {
		pos = s.Length
	}
	return s.Margin + (s.Extent-2*s.Margin)*float64(pos)/float64(s.Length)
}
