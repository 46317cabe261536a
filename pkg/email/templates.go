package email

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// EmergencyAlertData describes one EMERGENCY triage outcome.
type EmergencyAlertData struct {
	To            []string
	AppName       string
	FingerprintID int64
	PatientName   string
	Age           int
	Sex           string
	Location      string
	Summary       string
	Source        string
	At            time.Time
}

// BuildEmergencyAlertEmail creates the on-call notification for an
// EMERGENCY result.
func BuildEmergencyAlertEmail(data EmergencyAlertData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Triage Robot"
	}
	at := data.At
	if at.IsZero() {
		at = time.Now()
	}
	when := at.UTC().Format("2006-01-02 15:04 MST")

	subject := fmt.Sprintf("[%s] EMERGENCY triage: patient #%d", appName, data.FingerprintID)

	textBody := fmt.Sprintf(`EMERGENCY triage result

Patient: %s (#%d), age %d, %s
Pain location: %s
Summary: %s
Detected by: %s
Time: %s

This is an advisory result from a prototype system, not a diagnosis.
%s`,
		data.PatientName, data.FingerprintID, data.Age, data.Sex,
		orDash(data.Location), data.Summary, data.Source, when, appName)

	e := html.EscapeString
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">EMERGENCY triage result</h2>
    <table style="border-collapse: collapse;">
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Patient</td><td>%s (#%d), age %d, %s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Pain location</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Detected by</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Time</td><td>%s</td></tr>
    </table>
    <p style="background-color: #fef2f2; padding: 10px 15px; border-radius: 4px;">%s</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">This is an advisory result from a prototype system, not a diagnosis.<br>%s</p>
</body>
</html>`,
		e(data.PatientName), data.FingerprintID, data.Age, e(data.Sex),
		e(orDash(data.Location)), e(data.Source), e(when), e(data.Summary), e(appName))

	return Message{
		To:       data.To,
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		Headers:  map[string]string{"X-Priority": "1"},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
