package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/triage"
)

// QA is one answered questionnaire for a body part.
type QA struct {
	FingerprintID int64
	BodyPart      string
	SpecificArea  string
	Questions     []string
	Answers       []string
}

// Ledger owns the pain_analysis rows. A row stays pending (no severity)
// until Resolve fills it in.
type Ledger struct {
	db    *repo.Client
	locks *keyedMutex
	now   func() time.Time
}

func NewLedger(db *repo.Client) *Ledger {
	return &Ledger{db: db, locks: newKeyedMutex(), now: func() time.Time { return time.Now().UTC() }}
}

// RecordPendingQA always inserts a new pending row and returns its id.
func (l *Ledger) RecordPendingQA(ctx context.Context, qa QA) (int64, error) {
	row := &repo.PainAnalysis{
		FingerprintID: qa.FingerprintID,
		BodyPart:      strings.TrimSpace(qa.BodyPart),
		SpecificArea:  optional(qa.SpecificArea),
		Questions:     nonNil(qa.Questions),
		Answers:       nonNil(qa.Answers),
		Timestamp:     l.now(),
	}
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("record pending analysis: %w", err)
	}
	return row.ID, nil
}

// Resolve stores res on the most recent pending row for the patient and body
// part, overwriting its questions, answers and area. Without a pending row a
// resolved row is inserted. Returns the id of the row written.
func (l *Ledger) Resolve(ctx context.Context, qa QA, res triage.Result) (int64, error) {
	part := strings.TrimSpace(qa.BodyPart)
	unlock := l.locks.Lock(fmt.Sprintf("%d/%s", qa.FingerprintID, part))
	defer unlock()

	severity := string(res.Severity)
	summary := res.Summary
	rec := string(res.Recommendation)

	var id int64
	err := l.db.Tx(ctx, func(tx *repo.Client) error {
		var pending []repo.PainAnalysis
		err := tx.Where("fingerprint_id = ? AND body_part = ? AND severity IS NULL", qa.FingerprintID, part).
			Order("timestamp DESC").Order("id DESC").
			Limit(1).
			Find(&pending).Error
		if err != nil {
			return err
		}

		if len(pending) == 1 {
			row := pending[0]
			row.SpecificArea = optional(qa.SpecificArea)
			row.Questions = nonNil(qa.Questions)
			row.Answers = nonNil(qa.Answers)
			row.Severity = &severity
			row.Summary = &summary
			row.Recommendation = &rec
			id = row.ID
			return tx.Save(&row).Error
		}

		row := &repo.PainAnalysis{
			FingerprintID:  qa.FingerprintID,
			BodyPart:       part,
			SpecificArea:   optional(qa.SpecificArea),
			Questions:      nonNil(qa.Questions),
			Answers:        nonNil(qa.Answers),
			Severity:       &severity,
			Summary:        &summary,
			Recommendation: &rec,
			Timestamp:      l.now(),
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("resolve analysis: %w", err)
	}
	return id, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
