package triage

// Thresholds for the rule-based override.
const (
	MinSafeSpO2        = 90
	MaxSafeHeartRate   = 130
	MaxSafeTemperature = 39.0
)

const RuleBasedSummary = "Critical vitals detected (rule-based)"

// Evaluate runs the vitals safety filter. It returns an EMERGENCY result and
// true when any measured value crosses a threshold. Unmeasured values never
// trigger.
func Evaluate(v *Vitals) (Result, bool) {
	if v == nil || !critical(v) {
		return Result{}, false
	}
	return Result{
		Severity:       SeverityEmergency,
		Summary:        RuleBasedSummary,
		Recommendation: RecommendEmergency,
	}, true
}

func critical(v *Vitals) bool {
	if v.SpO2 != nil && *v.SpO2 < MinSafeSpO2 {
		return true
	}
	if v.HeartRate != nil && *v.HeartRate > MaxSafeHeartRate {
		return true
	}
	if v.Temperature != nil && *v.Temperature > MaxSafeTemperature {
		return true
	}
	return false
}
