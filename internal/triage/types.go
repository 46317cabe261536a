// Package triage holds the deterministic parts of the triage pipeline:
// the vitals safety filter, the classifier prompt, and the normalizer that
// turns classifier text into a closed-set Result.
package triage

import "strings"

type Severity string

const (
	SeverityLow       Severity = "LOW"
	SeverityMedium    Severity = "MEDIUM"
	SeverityHigh      Severity = "HIGH"
	SeverityEmergency Severity = "EMERGENCY"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityEmergency:
		return true
	}
	return false
}

type Recommendation string

const (
	RecommendHomeCare  Recommendation = "Home care"
	RecommendDoctor    Recommendation = "Doctor consultation"
	RecommendEmergency Recommendation = "Immediate emergency care"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendHomeCare, RecommendDoctor, RecommendEmergency:
		return true
	}
	return false
}

// Source records which stage produced a Result.
type Source string

const (
	SourceRule       Source = "rule"
	SourceOffline    Source = "offline"
	SourceClassifier Source = "classifier"
)

var bodyParts = []string{
	"Head", "Chest", "Abdomen",
	"Left Arm", "Right Arm",
	"Left Leg", "Right Leg",
	"Back",
}

// BodyParts returns the selectable body parts in display order.
func BodyParts() []string {
	out := make([]string, len(bodyParts))
	copy(out, bodyParts)
	return out
}

// ValidBodyPart reports whether part is one of BodyParts. Matching is exact
// after trimming surrounding whitespace.
func ValidBodyPart(part string) bool {
	part = strings.TrimSpace(part)
	for _, p := range bodyParts {
		if p == part {
			return true
		}
	}
	return false
}

// Vitals is a single reading. Nil fields were not measured.
type Vitals struct {
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	HeartRate     *int     `json:"heart_rate"`
	SpO2          *int     `json:"spo2"`
	Temperature   *float64 `json:"temperature"`
	BloodPressure string   `json:"blood_pressure"`
}

// Result is the analysis payload returned to callers and persisted.
type Result struct {
	Severity       Severity       `json:"severity"`
	Summary        string         `json:"summary"`
	Recommendation Recommendation `json:"recommendation"`
}

const (
	OfflineSummary = "Analysis completed. This is a demo result for testing purposes."
	NoSummary      = "No summary provided."
	NoAnswer       = "N/A"
)

// OfflineResult is returned when no classifier credential is configured.
func OfflineResult() Result {
	return Result{
		Severity:       SeverityMedium,
		Summary:        OfflineSummary,
		Recommendation: RecommendDoctor,
	}
}
