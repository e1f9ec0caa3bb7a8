package domain

// ProviderID identifies one supported wearable vendor.
type ProviderID string

const (
	ProviderFitbit ProviderID = "fitbit"
	ProviderOura   ProviderID = "oura"
	ProviderWhoop  ProviderID = "whoop"
	ProviderPolar  ProviderID = "polar"
)

// AllProviders lists every supported provider in stable display order.
func AllProviders() []ProviderID {
	return []ProviderID{ProviderFitbit, ProviderOura, ProviderWhoop, ProviderPolar}
}

func (p ProviderID) Valid() bool {
	switch p {
	case ProviderFitbit, ProviderOura, ProviderWhoop, ProviderPolar:
		return true
	default:
		return false
	}
}

// Resource is one category of data within a provider.
type Resource string

const (
	ResourceSleep     Resource = "sleep"
	ResourceHeartRate Resource = "heart_rate"
	ResourceActivity  Resource = "activity"
	ResourceReadiness Resource = "readiness"
	ResourceHRV       Resource = "hrv"
	ResourceProfile   Resource = "profile"
)
