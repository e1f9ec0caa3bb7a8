package fitbit

import "time"

// Wire shapes are kept verbatim; normalization happens in normalizer.go.

type sleepResponse struct {
	Sleep []SleepLog `json:"sleep"`
}

type SleepLog struct {
	DateOfSleep string      `json:"dateOfSleep"`
	Duration    int64       `json:"duration"` // milliseconds
	Efficiency  *float64    `json:"efficiency"`
	EndTime     string      `json:"endTime"`
	IsMainSleep bool        `json:"isMainSleep"`
	Levels      SleepLevels `json:"levels"`
}

type SleepLevels struct {
	Summary SleepStageSummary `json:"summary"`
}

type SleepStageSummary struct {
	Deep  *SleepStage `json:"deep"`
	Light *SleepStage `json:"light"`
	Rem   *SleepStage `json:"rem"`
	Wake  *SleepStage `json:"wake"`
}

type SleepStage struct {
	Minutes float64 `json:"minutes"`
}

// endTimeLayout is Fitbit's zone-less log timestamp format.
const endTimeLayout = "2006-01-02T15:04:05.000"

type SleepRecord struct {
	Log SleepLog
}

func (r SleepRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse(endTimeLayout, r.Log.EndTime); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", r.Log.DateOfSleep); err == nil {
		return parsed
	}
	return time.Time{}
}

type heartResponse struct {
	ActivitiesHeart []HeartDay `json:"activities-heart"`
}

type HeartDay struct {
	DateTime string     `json:"dateTime"`
	Value    HeartValue `json:"value"`
}

type HeartValue struct {
	RestingHeartRate *float64        `json:"restingHeartRate"`
	HeartRateZones   []HeartRateZone `json:"heartRateZones"`
}

type HeartRateZone struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Minutes float64 `json:"minutes"`
}

type HeartRecord struct {
	Day HeartDay
}

func (r HeartRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse("2006-01-02", r.Day.DateTime); err == nil {
		return parsed
	}
	return time.Time{}
}

type activityResponse struct {
	Summary *ActivitySummary `json:"summary"`
}

type ActivitySummary struct {
	Steps       *int     `json:"steps"`
	CaloriesOut *float64 `json:"caloriesOut"`
}

type ActivityRecord struct {
	Date    time.Time
	Summary ActivitySummary
}

func (r ActivityRecord) ObservedAt() time.Time { return r.Date }

type hrvResponse struct {
	HRV []HRVDay `json:"hrv"`
}

type HRVDay struct {
	DateTime string   `json:"dateTime"`
	Value    HRVValue `json:"value"`
}

type HRVValue struct {
	DailyRmssd *float64 `json:"dailyRmssd"`
}

type HRVRecord struct {
	Day HRVDay
}

func (r HRVRecord) ObservedAt() time.Time {
	if parsed, err := time.Parse("2006-01-02", r.Day.DateTime); err == nil {
		return parsed
	}
	return time.Time{}
}

type profileResponse struct {
	User profileUser `json:"user"`
}

type profileUser struct {
	DisplayName string `json:"displayName"`
}

type ProfileRecord struct {
	Name string
}

func (r ProfileRecord) ObservedAt() time.Time { return time.Time{} }

func (r ProfileRecord) DisplayName() string { return r.Name }
