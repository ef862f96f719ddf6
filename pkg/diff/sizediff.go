package diff

import (
	"math"
	"strconv"
)

// SizeDiff is the signed byte delta between two snapshots of an artifact
// together with its rendered percentage change.
type SizeDiff struct {
	// Delta is newSize - oldSize in bytes.
	Delta int64

	// Percent is the formatted percentage change, e.g. "+12.35% 🔼".
	Percent string
}

// ComputeSizeDiff computes the size change from oldSize to newSize.
//
// An artifact with no prior size reports a flat "+100% 🔼" rather than an
// undefined percentage. Otherwise the magnitude of the raw percentage is
// rounded up at two decimals and the sign reapplied; only positive changes
// carry the up-arrow marker, negative changes carry the down arrow, and an
// exact zero renders as a bare "0%".
func ComputeSizeDiff(oldSize, newSize int64) SizeDiff {
	delta := newSize - oldSize

	if oldSize == 0 {
		if newSize != 0 {
			return SizeDiff{Delta: delta, Percent: "+100% 🔼"}
		}
		return SizeDiff{Delta: 0, Percent: "0%"}
	}

	// Multiply before dividing so integer percentages stay exact.
	raw := float64(delta) * 100 / float64(oldSize)

	// Ceiling of the magnitude at two decimals: 12.341 rounds to 12.35.
	magnitude := math.Ceil(math.Abs(raw)*100) / 100
	percent := strconv.FormatFloat(magnitude, 'f', -1, 64)

	switch {
	case raw > 0:
		return SizeDiff{Delta: delta, Percent: "+" + percent + "% 🔼"}
	case raw < 0:
		return SizeDiff{Delta: delta, Percent: "-" + percent + "% ⬇️"}
	default:
		return SizeDiff{Delta: delta, Percent: percent + "%"}
	}
}
