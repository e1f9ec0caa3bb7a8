package whoop

import "time"

type recoveryResponse struct {
	Records []Recovery `json:"records"`
}

type Recovery struct {
	CycleID   int64         `json:"cycle_id"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	Score     RecoveryScore `json:"score"`
}

type RecoveryScore struct {
	RecoveryScore    *float64 `json:"recovery_score"`
	HRVRmssdMilli    *float64 `json:"hrv_rmssd_milli"`
	RestingHeartRate *float64 `json:"resting_heart_rate"`
}

type RecoveryRecord struct {
	Recovery Recovery
}

func (r RecoveryRecord) ObservedAt() time.Time {
	return parseRFC3339(r.Recovery.UpdatedAt, r.Recovery.CreatedAt)
}

type sleepResponse struct {
	Records []Sleep `json:"records"`
}

type Sleep struct {
	ID    int64      `json:"id"`
	Start string     `json:"start"`
	End   string     `json:"end"`
	Nap   bool       `json:"nap"`
	Score SleepScore `json:"score"`
}

type SleepScore struct {
	SleepPerformancePercentage *float64          `json:"sleep_performance_percentage"`
	SleepEfficiencyPercentage  *float64          `json:"sleep_efficiency_percentage"`
	StageSummary               SleepStageSummary `json:"stage_summary"`
}

type SleepStageSummary struct {
	TotalLightSleepTimeMilli    int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepTimeMilli      int64 `json:"total_rem_sleep_time_milli"`
	TotalAwakeTimeMilli         int64 `json:"total_awake_time_milli"`
}

type SleepRecord struct {
	Sleep Sleep
}

func (r SleepRecord) ObservedAt() time.Time {
	return parseRFC3339(r.Sleep.End, r.Sleep.Start)
}

type cycleResponse struct {
	Records []Cycle `json:"records"`
}

type Cycle struct {
	ID    int64      `json:"id"`
	Start string     `json:"start"`
	End   string     `json:"end"`
	Score CycleScore `json:"score"`
}

type CycleScore struct {
	Strain           *float64 `json:"strain"`
	Kilojoule        *float64 `json:"kilojoule"`
	AverageHeartRate *float64 `json:"average_heart_rate"`
}

type CycleRecord struct {
	Cycle Cycle
}

func (r CycleRecord) ObservedAt() time.Time {
	return parseRFC3339(r.Cycle.End, r.Cycle.Start)
}

type profileResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ProfileRecord struct {
	FirstName string
	LastName  string
}

func (r ProfileRecord) ObservedAt() time.Time { return time.Time{} }

func (r ProfileRecord) DisplayName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

func parseRFC3339(candidates ...string) time.Time {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
