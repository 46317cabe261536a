package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/triage"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	FingerprintID int64  `validate:"gte=0"`
	Name          string `validate:"required"`
	Age           int    `validate:"gte=0"`
	Sex           string `validate:"oneof=Male Female Other"`
}

type SaveVitalsRequest struct {
	FingerprintID int64
	Weight        *float64
	Height        *float64
	HeartRate     *int
	SpO2          *int
	Temperature   *float64
	BloodPressure string
}

type PainSelection struct {
	FingerprintID int64  `json:"-"`
	BodyPart      string `json:"body_part"`
	SpecificArea  string `json:"specific_area"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*repo.Patient, error)
	Get(ctx context.Context, fingerprintID int64) (*repo.Patient, error)
	List(ctx context.Context) ([]repo.Patient, error)
	Delete(ctx context.Context, fingerprintID int64) error

	SaveVitals(ctx context.Context, req SaveVitalsRequest) (*repo.Vitals, error)
	ListVitals(ctx context.Context, fingerprintID int64) ([]repo.Vitals, error)

	// SelectPain validates a pain location. Nothing is stored.
	SelectPain(ctx context.Context, sel PainSelection) (PainSelection, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	db *repo.Client
}

func New(db *repo.Client) Service {
	return &patientService{db: db}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// registrationError maps the first failing field to the sentinel the API
// reports for it.
func registrationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	switch fields[0].StructField() {
	case "Sex":
		return ErrInvalidSex
	case "Name":
		return ErrMissingName
	}
	return ErrInvalidRegistration
}

func (s *patientService) Register(ctx context.Context, req RegisterRequest) (*repo.Patient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Sex = strings.TrimSpace(req.Sex)

	if err := validate.Struct(req); err != nil {
		return nil, registrationError(err)
	}

	exists, err := s.db.PatientExists(ctx, req.FingerprintID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	p := &repo.Patient{
		FingerprintID: req.FingerprintID,
		Name:          req.Name,
		Age:           req.Age,
		Sex:           req.Sex,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		// lost a race with a concurrent registration
		if repo.IsConstraintError(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}

	slog.Info("patient registered", "fingerprint_id", p.FingerprintID)
	return p, nil
}

func (s *patientService) Get(ctx context.Context, fingerprintID int64) (*repo.Patient, error) {
	p, err := s.db.PatientByID(ctx, fingerprintID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *patientService) List(ctx context.Context) ([]repo.Patient, error) {
	var patients []repo.Patient
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("fingerprint_id DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// Delete removes the patient and every dependent row in one transaction.
// Deleting an unknown patient succeeds.
func (s *patientService) Delete(ctx context.Context, fingerprintID int64) error {
	err := s.db.Tx(ctx, func(tx *repo.Client) error {
		dependents := []any{
			&repo.Vitals{},
			&repo.PainAnalysis{},
			&repo.MedicalHistory{},
			&repo.DoctorDocument{},
		}
		for _, model := range dependents {
			if err := tx.Where("fingerprint_id = ?", fingerprintID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("fingerprint_id = ?", fingerprintID).Delete(&repo.Patient{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete patient %d: %w", fingerprintID, err)
	}
	slog.Info("patient deleted", "fingerprint_id", fingerprintID)
	return nil
}

func (s *patientService) SaveVitals(ctx context.Context, req SaveVitalsRequest) (*repo.Vitals, error) {
	exists, err := s.db.PatientExists(ctx, req.FingerprintID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	bp := req.BloodPressure
	v := &repo.Vitals{
		FingerprintID: req.FingerprintID,
		Weight:        req.Weight,
		Height:        req.Height,
		HeartRate:     req.HeartRate,
		SpO2:          req.SpO2,
		Temperature:   req.Temperature,
		BloodPressure: &bp,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, fmt.Errorf("save vitals: %w", err)
	}
	return v, nil
}

func (s *patientService) ListVitals(ctx context.Context, fingerprintID int64) ([]repo.Vitals, error) {
	return s.db.VitalsHistory(ctx, fingerprintID, false)
}

func (s *patientService) SelectPain(_ context.Context, sel PainSelection) (PainSelection, error) {
	sel.BodyPart = strings.TrimSpace(sel.BodyPart)
	sel.SpecificArea = strings.TrimSpace(sel.SpecificArea)
	if !triage.ValidBodyPart(sel.BodyPart) {
		return PainSelection{}, ErrInvalidBodyPart
	}
	return sel, nil
}
