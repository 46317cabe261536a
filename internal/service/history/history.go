package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/pkg/crypto"
)

// History is the doctor-editable allergy and medication record. UpdatedAt is
// nil until the record is first saved.
type History struct {
	FingerprintID      int64      `json:"fingerprint_id"`
	CurrentAllergies   string     `json:"current_allergies"`
	PastAllergies      string     `json:"past_allergies"`
	CurrentMedications string     `json:"current_medications"`
	PastMedications    string     `json:"past_medications"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

type SaveRequest struct {
	CurrentAllergies   string
	PastAllergies      string
	CurrentMedications string
	PastMedications    string
}

type Service interface {
	Get(ctx context.Context, fingerprintID int64) (*History, error)
	Save(ctx context.Context, fingerprintID int64, req SaveRequest) (*History, error)
}

type historyService struct {
	db     *repo.Client
	cipher *crypto.FieldCipher
}

// New builds the service. A nil cipher stores text in the clear.
func New(db *repo.Client, cipher *crypto.FieldCipher) Service {
	return &historyService{db: db, cipher: cipher}
}

func (s *historyService) Get(ctx context.Context, fingerprintID int64) (*History, error) {
	var rows []repo.MedicalHistory
	if err := s.db.WithContext(ctx).Where("fingerprint_id = ?", fingerprintID).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get medical history: %w", err)
	}
	if len(rows) == 0 {
		return &History{FingerprintID: fingerprintID}, nil
	}
	return s.open(&rows[0])
}

// Save inserts or replaces the record.
func (s *historyService) Save(ctx context.Context, fingerprintID int64, req SaveRequest) (*History, error) {
	exists, err := s.db.PatientExists(ctx, fingerprintID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	row := repo.MedicalHistory{FingerprintID: fingerprintID, UpdatedAt: time.Now().UTC()}
	fields := []struct {
		dst *string
		src string
	}{
		{&row.CurrentAllergies, req.CurrentAllergies},
		{&row.PastAllergies, req.PastAllergies},
		{&row.CurrentMedications, req.CurrentMedications},
		{&row.PastMedications, req.PastMedications},
	}
	for _, f := range fields {
		sealed, err := s.cipher.Seal(strings.TrimSpace(f.src))
		if err != nil {
			return nil, fmt.Errorf("encrypt medical history: %w", err)
		}
		*f.dst = sealed
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_allergies", "past_allergies", "current_medications", "past_medications", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("save medical history: %w", err)
	}

	return s.open(&row)
}

func (s *historyService) open(row *repo.MedicalHistory) (*History, error) {
	h := &History{FingerprintID: row.FingerprintID}
	fields := []struct {
		dst *string
		src string
	}{
		{&h.CurrentAllergies, row.CurrentAllergies},
		{&h.PastAllergies, row.PastAllergies},
		{&h.CurrentMedications, row.CurrentMedications},
		{&h.PastMedications, row.PastMedications},
	}
	for _, f := range fields {
		plain, err := s.cipher.Open(f.src)
		if err != nil {
			return nil, fmt.Errorf("decrypt medical history: %w", err)
		}
		*f.dst = plain
	}
	if !row.UpdatedAt.IsZero() {
		at := row.UpdatedAt
		h.UpdatedAt = &at
	}
	return h, nil
}
