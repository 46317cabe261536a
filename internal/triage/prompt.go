package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

const promptPreamble = `You are an advisory triage assistant for a prototype medical robot.
This is NOT a real diagnosis.`

const promptContract = `IMPORTANT:
- You MUST respond with ONLY raw JSON
- Do NOT include explanations
- Do NOT include markdown
- Do NOT include text before or after JSON
- Output must start with { and end with }

Respond exactly in this JSON format:
{
  "severity": "LOW" | "MEDIUM" | "HIGH" | "EMERGENCY",
  "summary": "2-3 sentence explanation",
  "recommendation": "Home care" | "Doctor consultation" | "Immediate emergency care"
}`

// PatientInfo is the identity block of the prompt.
type PatientInfo struct {
	Name string
	Age  int
	Sex  string
}

type PromptInput struct {
	Patient      PatientInfo
	Vitals       *Vitals
	BodyPart     string
	SpecificArea string
	Questions    []string
	Answers      []string
}

// Location renders "<part> - <area>", or just the part when no area is set.
func Location(part, area string) string {
	part = strings.TrimSpace(part)
	area = strings.TrimSpace(area)
	if area == "" {
		return part
	}
	return part + " - " + area
}

// QALines pairs every question with the answer at the same index. Questions
// without an answer get NoAnswer; answers without a question are dropped.
func QALines(questions, answers []string) []string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		a := NoAnswer
		if i < len(answers) {
			a = answers[i]
		}
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", q, a))
	}
	return lines
}

// BuildPrompt assembles the classifier prompt.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Patient: %s, age %d, sex %s.\n", in.Patient.Name, in.Patient.Age, in.Patient.Sex)
	fmt.Fprintf(&b, "Pain location: %s\n", Location(in.BodyPart, in.SpecificArea))
	fmt.Fprintf(&b, "Vitals: %s\n\n", vitalsJSON(in.Vitals))
	b.WriteString("Questions and answers:\n")
	b.WriteString(strings.Join(QALines(in.Questions, in.Answers), "\n"))
	b.WriteString("\n\n")
	b.WriteString(promptContract)
	b.WriteString("\n")

	return b.String()
}

func vitalsJSON(v *Vitals) string {
	if v == nil {
		return "{}"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
