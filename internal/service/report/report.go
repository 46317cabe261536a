// Package report builds the doctor-facing PDF export and the chart timeline.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/history"
	"github.com/Alijeyrad/triage_backend/internal/triage"
)

const (
	reportTitle     = "Medical Robot Assistant - Patient Report"
	maxVitalsRows   = 10
	maxAnalysisRows = 5
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Report struct {
	Filename string
	Content  []byte
}

type TimelineAnalysis struct {
	BodyPart     string    `json:"body_part"`
	SpecificArea *string   `json:"specific_area"`
	Severity     *string   `json:"severity"`
	Timestamp    time.Time `json:"timestamp"`
}

type Timeline struct {
	Vitals       []repo.Vitals      `json:"vitals"`
	PainAnalyses []TimelineAnalysis `json:"pain_analyses"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Export(ctx context.Context, fingerprintID int64) (*Report, error)
	// Timeline lists vitals and analyses oldest first.
	Timeline(ctx context.Context, fingerprintID int64) (*Timeline, error)
}

type reportService struct {
	db      *repo.Client
	history history.Service
	now     func() time.Time
}

func New(db *repo.Client, hist history.Service) Service {
	return &reportService{db: db, history: hist, now: time.Now}
}

func (s *reportService) Timeline(ctx context.Context, fingerprintID int64) (*Timeline, error) {
	vitals, err := s.db.VitalsHistory(ctx, fingerprintID, true)
	if err != nil {
		return nil, err
	}
	analyses, err := s.db.Analyses(ctx, fingerprintID, true)
	if err != nil {
		return nil, err
	}
	if vitals == nil {
		vitals = []repo.Vitals{}
	}
	return &Timeline{
		Vitals: vitals,
		PainAnalyses: lo.Map(analyses, func(a repo.PainAnalysis, _ int) TimelineAnalysis {
			return TimelineAnalysis{
				BodyPart:     a.BodyPart,
				SpecificArea: a.SpecificArea,
				Severity:     a.Severity,
				Timestamp:    a.Timestamp,
			}
		}),
	}, nil
}

func (s *reportService) Export(ctx context.Context, fingerprintID int64) (*Report, error) {
	p, err := s.db.PatientByID(ctx, fingerprintID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	hist, err := s.history.Get(ctx, fingerprintID)
	if err != nil {
		return nil, err
	}
	vitals, err := s.db.VitalsHistory(ctx, fingerprintID, false)
	if err != nil {
		return nil, err
	}
	analyses, err := s.db.Analyses(ctx, fingerprintID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	content, err := render(reportData{
		patient:  p,
		history:  hist,
		vitals:   lo.Subset(vitals, 0, maxVitalsRows),
		analyses: lo.Subset(analyses, 0, maxAnalysisRows),
		now:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return &Report{
		Filename: fmt.Sprintf("patient_report_%d_%s.pdf", fingerprintID, now.Format("20060102")),
		Content:  content,
	}, nil
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

type reportData struct {
	patient  *repo.Patient
	history  *history.History
	vitals   []repo.Vitals
	analyses []repo.PainAnalysis
	now      time.Time
}

func render(d reportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	line := func(h float64, s string) { pdf.CellFormat(0, h, tr(s), "", 1, "", false, 0, "") }
	heading := func(s string) {
		pdf.SetFont("Arial", "B", 14)
		line(10, s)
	}

	heading("Patient Information")
	pdf.SetFont("Arial", "", 11)
	line(8, "Name: "+d.patient.Name)
	line(8, fmt.Sprintf("Age: %d | Sex: %s", d.patient.Age, d.patient.Sex))
	line(8, fmt.Sprintf("Fingerprint ID: %d", d.patient.FingerprintID))
	line(8, "Registered: "+d.patient.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(5)

	if d.history != nil && d.history.UpdatedAt != nil {
		heading("Medical History")
		pdf.SetFont("Arial", "", 11)
		for _, f := range []struct{ label, value string }{
			{"Current Allergies", d.history.CurrentAllergies},
			{"Past Allergies", d.history.PastAllergies},
			{"Current Medications", d.history.CurrentMedications},
			{"Past Medications", d.history.PastMedications},
		} {
			pdf.MultiCell(0, 6, tr(f.label+": "+orDefault(f.value, "None")), "", "", false)
		}
		pdf.Ln(5)
	}

	if len(d.vitals) > 0 {
		heading("Vitals History")
		cols := []struct {
			title string
			width float64
		}{
			{"Date", 30}, {"Weight", 25}, {"Height", 25}, {"BP", 25},
			{"Heart Rate", 25}, {"SpO2", 25}, {"Temp", 25},
		}
		pdf.SetFont("Arial", "B", 10)
		for _, c := range cols {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, v := range d.vitals {
			cells := []string{
				v.Timestamp.Format("2006-01-02"),
				floatCell(v.Weight, " kg"),
				floatCell(v.Height, " cm"),
				orDefault(lo.FromPtr(v.BloodPressure), "-"),
				intCell(v.HeartRate, " bpm"),
				intCell(v.SpO2, "%"),
				floatCell(v.Temperature, " C"),
			}
			for i, c := range cells {
				pdf.CellFormat(cols[i].width, 8, tr(c), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	if len(d.analyses) > 0 {
		pdf.AddPage()
		heading("Pain Analysis History")
		for i, a := range d.analyses {
			pdf.SetFont("Arial", "B", 11)
			line(8, fmt.Sprintf("Analysis %d - %s", i+1, a.Timestamp.Format("2006-01-02 15:04")))
			pdf.SetFont("Arial", "", 10)
			line(6, "Body Part: "+a.BodyPart)
			if area := lo.FromPtr(a.SpecificArea); area != "" {
				line(6, "Specific Area: "+area)
			}
			line(6, "Severity: "+orDefault(lo.FromPtr(a.Severity), "Pending"))
			line(6, "Recommendation: "+orDefault(lo.FromPtr(a.Recommendation), string(triage.RecommendDoctor)))
			pdf.MultiCell(0, 6, tr("Summary: "+orDefault(lo.FromPtr(a.Summary), triage.NoAnswer)), "", "", false)
			pdf.Ln(3)
		}
	}

	pdf.AddPage()
	heading("Doctor Notes & Prescription")
	pdf.SetFont("Arial", "", 11)
	line(10, "Prescription: _________________________________________________")
	pdf.Ln(5)
	line(10, "Doctor Signature: ______________________________________________")
	line(10, "Date: "+d.now.Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func floatCell(v *float64, unit string) string {
	if v == nil {
		return "-" + unit
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}

func intCell(v *int, unit string) string {
	if v == nil {
		return "-" + unit
	}
	return strconv.Itoa(*v) + unit
}
