package domain

import "time"

// TrackerSnapshot is the canonical, provider-agnostic physiological summary.
// Every metric field is a pointer: nil means the provider did not supply the
// metric, never a zero sentinel. A snapshot is immutable once constructed.
type TrackerSnapshot struct {
	Recovery         *float64      `json:"recovery,omitempty"`
	HRV              *float64      `json:"hrv,omitempty"`
	HeartRate        *float64      `json:"heart_rate,omitempty"`
	RestingHeartRate *float64      `json:"resting_heart_rate,omitempty"`
	Sleep            *SleepSummary `json:"sleep,omitempty"`
	Steps            *int          `json:"steps,omitempty"`
	CaloriesOut      *float64      `json:"calories_out,omitempty"`
	// CapturedAt is the most recent internal timestamp of the records that
	// actually contributed, not the wall clock of the aggregation call.
	CapturedAt time.Time `json:"captured_at"`
}

type SleepSummary struct {
	DurationHours     *float64 `json:"duration_hours,omitempty"`
	QualityScore      *float64 `json:"quality_score,omitempty"`
	EfficiencyPercent *float64 `json:"efficiency_percent,omitempty"`
}

// Empty reports whether no metric at all was populated.
func (s TrackerSnapshot) Empty() bool {
	return s.Recovery == nil && s.HRV == nil && s.HeartRate == nil &&
		s.RestingHeartRate == nil && s.Sleep == nil && s.Steps == nil &&
		s.CaloriesOut == nil
}

// AggregationOutcome is the result of one latest-snapshot call. Snapshot is
// nil only when every sub-resource query failed; legitimately empty resources
// (NoData) leave no entry in ResourceErrors.
type AggregationOutcome struct {
	Snapshot       *TrackerSnapshot       `json:"snapshot"`
	ResourceErrors map[Resource]ErrorKind `json:"resource_errors,omitempty"`
}

// Record is one vendor-shaped sub-resource payload. Transports return the
// vendor's native shape verbatim; the only thing the aggregator reads from it
// is the internal observation timestamp used for recency tie-breaks.
type Record interface {
	ObservedAt() time.Time
}

// ProfileRecord is the vendor's user-profile payload, fetched once at
// connect time to verify the new credential works.
type ProfileRecord interface {
	Record
	DisplayName() string
}
