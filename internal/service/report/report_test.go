package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/history"
)

func newTestService(t *testing.T) (*reportService, *repo.Client) {
	t.Helper()
	db, err := repo.NewMemoryClient(context.Background())
	if err != nil {
		t.Fatalf("NewMemoryClient() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := New(db, history.New(db, nil)).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }
	return svc, db
}

func seed(t *testing.T, db *repo.Client) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hr, spo2 := 80, 97
	sev, sum := "LOW", "Mild strain"

	db.Create(&repo.Patient{FingerprintID: 5, Name: "Zoë", Age: 52, Sex: "Female", CreatedAt: base})
	for i := 0; i < 12; i++ {
		db.Create(&repo.Vitals{FingerprintID: 5, HeartRate: &hr, SpO2: &spo2, Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}
	db.Create(&repo.PainAnalysis{FingerprintID: 5, BodyPart: "Back", Severity: &sev, Summary: &sum, Timestamp: base.Add(2 * time.Hour)})
	db.Create(&repo.PainAnalysis{FingerprintID: 5, BodyPart: "Head", Timestamp: base.Add(time.Hour)})
}

func TestExport(t *testing.T) {
	svc, db := newTestService(t)
	seed(t, db)
	if _, err := history.New(db, nil).Save(context.Background(), 5, history.SaveRequest{CurrentAllergies: "Penicillin"}); err != nil {
		t.Fatalf("save history: %v", err)
	}

	rep, err := svc.Export(context.Background(), 5)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if rep.Filename != "patient_report_5_20260304.pdf" {
		t.Errorf("Filename = %q", rep.Filename)
	}
	if !bytes.HasPrefix(rep.Content, []byte("%PDF-")) {
		t.Errorf("Content is not a PDF: %q", rep.Content[:min(len(rep.Content), 16)])
	}
}

func TestExport_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Export(context.Background(), 404); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Export() error = %v, want ErrPatientNotFound", err)
	}
}

func TestTimeline_Ascending(t *testing.T) {
	svc, db := newTestService(t)
	seed(t, db)

	tl, err := svc.Timeline(context.Background(), 5)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if len(tl.Vitals) != 12 || !tl.Vitals[0].Timestamp.Before(tl.Vitals[11].Timestamp) {
		t.Errorf("vitals not ascending: %d rows", len(tl.Vitals))
	}
	if len(tl.PainAnalyses) != 2 || tl.PainAnalyses[0].BodyPart != "Head" {
		t.Errorf("analyses = %+v, want Head first", tl.PainAnalyses)
	}

	empty, err := svc.Timeline(context.Background(), 404)
	if err != nil || len(empty.Vitals) != 0 || len(empty.PainAnalyses) != 0 {
		t.Errorf("Timeline(unknown) = %+v, %v", empty, err)
	}
}

func TestCells(t *testing.T) {
	w, n := 70.5, 98
	tests := []struct{ got, want string }{
		{floatCell(&w, " kg"), "70.5 kg"},
		{floatCell(nil, " kg"), "- kg"},
		{intCell(&n, "%"), "98%"},
		{intCell(nil, " bpm"), "- bpm"},
		{orDefault("", "None"), "None"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
