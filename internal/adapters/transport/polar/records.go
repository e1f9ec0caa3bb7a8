package polar

import "time"

type sleepResponse struct {
	Nights []SleepNight `json:"nights"`
}

type SleepNight struct {
	Date           string   `json:"date"`
	SleepStartTime string   `json:"sleep_start_time"`
	SleepEndTime   string   `json:"sleep_end_time"`
	LightSleep     int64    `json:"light_sleep"` // seconds
	DeepSleep      int64    `json:"deep_sleep"`
	RemSleep       int64    `json:"rem_sleep"`
	SleepScore     *float64 `json:"sleep_score"`
	Continuity     *float64 `json:"continuity"`
}

type SleepRecord struct {
	Night SleepNight
}

func (r SleepRecord) ObservedAt() time.Time {
	return parseObserved(r.Night.SleepEndTime, r.Night.Date)
}

type rechargeResponse struct {
	Recharges []Recharge `json:"recharges"`
}

type Recharge struct {
	Date                    string   `json:"date"`
	HeartRateAvg            *float64 `json:"heart_rate_avg"`
	HeartRateVariabilityAvg *float64 `json:"heart_rate_variability_avg"`
	BreathingRateAvg        *float64 `json:"breathing_rate_avg"`
	NightlyRechargeStatus   *int     `json:"nightly_recharge_status"`
}

type RechargeRecord struct {
	Recharge Recharge
}

func (r RechargeRecord) ObservedAt() time.Time {
	return parseObserved("", r.Recharge.Date)
}

type continuousHeartRate struct {
	Date       string            `json:"date"`
	HeartRates []HeartRateSample `json:"heart_rates"`
}

type HeartRateSample struct {
	SampleTime string  `json:"sample_time"` // 15:04:05
	HeartRate  float64 `json:"heart_rate"`
}

type HeartRateRecord struct {
	Day continuousHeartRate
}

func (r HeartRateRecord) ObservedAt() time.Time {
	if len(r.Day.HeartRates) > 0 {
		last := r.Day.HeartRates[len(r.Day.HeartRates)-1]
		combined := r.Day.Date + "T" + last.SampleTime + "Z"
		if parsed, err := time.Parse(time.RFC3339, combined); err == nil {
			return parsed
		}
	}
	return parseObserved("", r.Day.Date)
}

type userResponse struct {
	PolarUserID int64  `json:"polar-user-id"`
	FirstName   string `json:"first-name"`
	LastName    string `json:"last-name"`
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

func parseObserved(timestamp, date string) time.Time {
	if parsed, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed
	}
	return time.Time{}
}
