package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/alert"
	"github.com/Alijeyrad/triage_backend/internal/triage"
	"github.com/Alijeyrad/triage_backend/pkg/gemini"
	"github.com/Alijeyrad/triage_backend/pkg/observability"
	"github.com/Alijeyrad/triage_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type AnalyzeRequest struct {
	FingerprintID int64
	BodyPart      string
	SpecificArea  string
	Questions     []string
	Answers       []string
}

// Outcome is a persisted triage result and the stage that produced it.
type Outcome struct {
	Result     triage.Result
	Source     triage.Source
	AnalysisID int64
}

// Analysis is the read view of a pain_analysis row. Recommendation is
// defaulted for rows written before the column existed.
type Analysis struct {
	ID             int64     `json:"id"`
	BodyPart       string    `json:"body_part"`
	SpecificArea   *string   `json:"specific_area"`
	Questions      []string  `json:"questions"`
	Answers        []string  `json:"answers"`
	Severity       *string   `json:"severity"`
	Summary        *string   `json:"ai_summary"`
	Recommendation string    `json:"recommendation"`
	Timestamp      time.Time `json:"timestamp"`
}

type Comparison struct {
	Analyses   []Analysis            `json:"analyses"`
	ByBodyPart map[string][]Analysis `json:"by_body_part"`
	TotalCount int                   `json:"total_count"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// SubmitAnswers records a questionnaire before analysis is requested.
	SubmitAnswers(ctx context.Context, qa QA) (int64, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*Outcome, error)

	Latest(ctx context.Context, fingerprintID int64) (*Analysis, error)
	List(ctx context.Context, fingerprintID int64) ([]Analysis, error)
	Compare(ctx context.Context, fingerprintID int64) (*Comparison, error)
}

// Classifier is satisfied by *gemini.Client.
type Classifier interface {
	Mode() gemini.Mode
	Classify(ctx context.Context, prompt string) (string, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type triageService struct {
	db         *repo.Client
	ledger     *Ledger
	classifier Classifier
	alerts     alert.Service
	metrics    *observability.TriageMetrics
}

// New wires the orchestrator. alerts and metrics may be nil.
func New(db *repo.Client, classifier Classifier, alerts alert.Service, metrics *observability.TriageMetrics) Service {
	return &triageService{
		db:         db,
		ledger:     NewLedger(db),
		classifier: classifier,
		alerts:     alerts,
		metrics:    metrics,
	}
}

func (s *triageService) SubmitAnswers(ctx context.Context, qa QA) (int64, error) {
	if !triage.ValidBodyPart(qa.BodyPart) {
		return 0, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidBodyPart)
	}
	if _, err := s.patient(ctx, qa.FingerprintID); err != nil {
		return 0, err
	}
	return s.ledger.RecordPendingQA(ctx, qa)
}

// Analyze runs validation, the vitals safety filter, then either the offline
// result or the classifier. Classifier failures persist nothing.
func (s *triageService) Analyze(ctx context.Context, req AnalyzeRequest) (*Outcome, error) {
	if !triage.ValidBodyPart(req.BodyPart) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidBodyPart)
	}
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrMissingAnswers)
	}

	p, err := s.patient(ctx, req.FingerprintID)
	if err != nil {
		return nil, err
	}

	latest, err := s.db.LatestVitals(ctx, req.FingerprintID)
	if err != nil {
		return nil, err
	}
	vitals := toVitals(latest)

	qa := QA{
		FingerprintID: req.FingerprintID,
		BodyPart:      strings.TrimSpace(req.BodyPart),
		SpecificArea:  req.SpecificArea,
		Questions:     req.Questions,
		Answers:       req.Answers,
	}

	if res, ok := triage.Evaluate(vitals); ok {
		return s.persist(ctx, p, qa, res, triage.SourceRule)
	}

	if s.classifier == nil || s.classifier.Mode() == gemini.ModeOffline {
		return s.persist(ctx, p, qa, triage.OfflineResult(), triage.SourceOffline)
	}

	prompt := triage.BuildPrompt(triage.PromptInput{
		Patient:      triage.PatientInfo{Name: p.Name, Age: p.Age, Sex: p.Sex},
		Vitals:       vitals,
		BodyPart:     qa.BodyPart,
		SpecificArea: qa.SpecificArea,
		Questions:    qa.Questions,
		Answers:      qa.Answers,
	})

	raw, err := s.classifier.Classify(ctx, prompt)
	if err != nil {
		s.logClassifierError(ctx, req.FingerprintID, err)
		s.metrics.RecordClassifierFailure(ctx, "transport")
		return nil, fmt.Errorf("%w: %w", ErrClassifierTransport, err)
	}

	res, err := triage.Normalize(raw)
	if err != nil {
		slog.ErrorContext(ctx, "classifier returned unparseable text", append(reqctx.LogAttrs(ctx),
			"fingerprint_id", req.FingerprintID,
			"raw", truncate(raw, 512),
		)...)
		s.metrics.RecordClassifierFailure(ctx, "format")
		return nil, fmt.Errorf("%w: %w", ErrClassifierFormat, err)
	}

	return s.persist(ctx, p, qa, res, triage.SourceClassifier)
}

func (s *triageService) persist(ctx context.Context, p *repo.Patient, qa QA, res triage.Result, src triage.Source) (*Outcome, error) {
	id, err := s.ledger.Resolve(ctx, qa, res)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOutcome(ctx, string(src), string(res.Severity))
	slog.InfoContext(ctx, "triage resolved", append(reqctx.LogAttrs(ctx),
		"fingerprint_id", qa.FingerprintID,
		"analysis_id", id,
		"severity", res.Severity,
		"source", src,
	)...)

	if res.Severity == triage.SeverityEmergency && s.alerts != nil {
		err := s.alerts.NotifyEmergency(ctx, alert.Emergency{
			FingerprintID: p.FingerprintID,
			PatientName:   p.Name,
			Age:           p.Age,
			Sex:           p.Sex,
			Location:      triage.Location(qa.BodyPart, qa.SpecificArea),
			Summary:       res.Summary,
			Source:        string(src),
			At:            time.Now().UTC(),
		})
		if err != nil {
			slog.WarnContext(ctx, "emergency alert delivery failed", append(reqctx.LogAttrs(ctx), "fingerprint_id", qa.FingerprintID, "error", err)...)
		}
	}

	return &Outcome{Result: res, Source: src, AnalysisID: id}, nil
}

func (s *triageService) logClassifierError(ctx context.Context, fingerprintID int64, err error) {
	attrs := append(reqctx.LogAttrs(ctx), "fingerprint_id", fingerprintID)
	var te *gemini.TransportError
	if errors.As(err, &te) {
		attrs = append(attrs, "status", te.StatusCode, "body", te.Body, "error", te.Err)
	} else {
		attrs = append(attrs, "error", err)
	}
	slog.ErrorContext(ctx, "classifier request failed", attrs...)
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func (s *triageService) Latest(ctx context.Context, fingerprintID int64) (*Analysis, error) {
	rows, err := s.db.Analyses(ctx, fingerprintID, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrAnalysisNotFound
	}
	a := toAnalysis(rows[0])
	return &a, nil
}

func (s *triageService) List(ctx context.Context, fingerprintID int64) ([]Analysis, error) {
	rows, err := s.db.Analyses(ctx, fingerprintID, false)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r repo.PainAnalysis, _ int) Analysis { return toAnalysis(r) }), nil
}

func (s *triageService) Compare(ctx context.Context, fingerprintID int64) (*Comparison, error) {
	list, err := s.List(ctx, fingerprintID)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Analyses:   list,
		ByBodyPart: lo.GroupBy(list, func(a Analysis) string { return a.BodyPart }),
		TotalCount: len(list),
	}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *triageService) patient(ctx context.Context, fingerprintID int64) (*repo.Patient, error) {
	p, err := s.db.PatientByID(ctx, fingerprintID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

func toVitals(v *repo.Vitals) *triage.Vitals {
	if v == nil {
		return nil
	}
	return &triage.Vitals{
		Weight:        v.Weight,
		Height:        v.Height,
		HeartRate:     v.HeartRate,
		SpO2:          v.SpO2,
		Temperature:   v.Temperature,
		BloodPressure: lo.FromPtr(v.BloodPressure),
	}
}

func toAnalysis(r repo.PainAnalysis) Analysis {
	rec := lo.FromPtr(r.Recommendation)
	if rec == "" {
		rec = string(triage.RecommendDoctor)
	}
	return Analysis{
		ID:             r.ID,
		BodyPart:       r.BodyPart,
		SpecificArea:   r.SpecificArea,
		Questions:      nonNil(r.Questions),
		Answers:        nonNil(r.Answers),
		Severity:       r.Severity,
		Summary:        r.Summary,
		Recommendation: rec,
		Timestamp:      r.Timestamp,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
