// Package norm holds the numeric plumbing shared by the vendor normalizers.
// Vendor-specific field mapping never lives here.
package norm

import (
	"math"

	"github.com/bnema/vitals-cli/internal/domain"
)

// Observe advances the snapshot's CapturedAt to the record's internal
// timestamp when it is more recent. Called once per contributing record.
func Observe(snap *domain.TrackerSnapshot, rec domain.Record) {
	if at := rec.ObservedAt(); at.After(snap.CapturedAt) {
		snap.CapturedAt = at
	}
}

// Finite reports whether v is present and a usable number. Absent or
// non-finite source values must be omitted, never coerced to zero.
func Finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func F64(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func ClampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
