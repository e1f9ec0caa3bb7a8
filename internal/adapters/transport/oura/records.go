package oura

import "time"

type sleepResponse struct {
	Data []SleepSession `json:"data"`
}

type SleepSession struct {
	Day                string   `json:"day"`
	TotalSleepDuration int64    `json:"total_sleep_duration"` // seconds
	Efficiency         *float64 `json:"efficiency"`
	AverageHRV         *float64 `json:"average_hrv"`
	AverageHeartRate   *float64 `json:"average_heart_rate"`
	LowestHeartRate    *float64 `json:"lowest_heart_rate"`
	BedtimeEnd         string   `json:"bedtime_end"`
}

type SleepRecord struct {
	Session SleepSession
}

func (r SleepRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse(time.RFC3339, r.Session.BedtimeEnd); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", r.Session.Day); err == nil {
		return parsed
	}
	return time.Time{}
}

type readinessResponse struct {
	Data []ReadinessDay `json:"data"`
}

type ReadinessDay struct {
	Day          string                `json:"day"`
	Score        *float64              `json:"score"`
	Timestamp    string                `json:"timestamp"`
	Contributors ReadinessContributors `json:"contributors"`
}

type ReadinessContributors struct {
	RestingHeartRate *float64 `json:"resting_heart_rate"`
	HRVBalance       *float64 `json:"hrv_balance"`
}

type ReadinessRecord struct {
	Day ReadinessDay
}

func (r ReadinessRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse(time.RFC3339, r.Day.Timestamp); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", r.Day.Day); err == nil {
		return parsed
	}
	return time.Time{}
}

type activityResponse struct {
	Data []ActivityDay `json:"data"`
}

type ActivityDay struct {
	Day           string   `json:"day"`
	Steps         *int     `json:"steps"`
	TotalCalories *float64 `json:"total_calories"`
	Timestamp     string   `json:"timestamp"`
}

type ActivityRecord struct {
	Day ActivityDay
}

func (r ActivityRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse(time.RFC3339, r.Day.Timestamp); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", r.Day.Day); err == nil {
		return parsed
	}
	return time.Time{}
}

type personalInfoResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ProfileRecord struct {
	Email string
}

func (r ProfileRecord) ObservedAt() time.Time { return time.Time{} }

func (r ProfileRecord) DisplayName() string { return r.Email }
