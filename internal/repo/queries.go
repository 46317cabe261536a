package repo

import (
	"context"
	"fmt"
)

// Reads shared by several services.

func (c *Client) PatientByID(ctx context.Context, fingerprintID int64) (*Patient, error) {
	var p Patient
	if err := c.WithContext(ctx).First(&p, "fingerprint_id = ?", fingerprintID).Error; err != nil {
		return nil, fmt.Errorf("get patient %d: %w", fingerprintID, err)
	}
	return &p, nil
}

func (c *Client) PatientExists(ctx context.Context, fingerprintID int64) (bool, error) {
	var n int64
	if err := c.WithContext(ctx).Model(&Patient{}).Where("fingerprint_id = ?", fingerprintID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check patient %d: %w", fingerprintID, err)
	}
	return n > 0, nil
}

// LatestVitals returns the newest reading, or nil when none was recorded.
func (c *Client) LatestVitals(ctx context.Context, fingerprintID int64) (*Vitals, error) {
	var rows []Vitals
	err := c.WithContext(ctx).
		Where("fingerprint_id = ?", fingerprintID).
		Order("timestamp DESC").Order("id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("latest vitals %d: %w", fingerprintID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Analyses returns a patient's analyses, newest first unless ascending is set.
func (c *Client) Analyses(ctx context.Context, fingerprintID int64, ascending bool) ([]PainAnalysis, error) {
	order := "timestamp DESC, id DESC"
	if ascending {
		order = "timestamp ASC, id ASC"
	}
	var rows []PainAnalysis
	if err := c.WithContext(ctx).Where("fingerprint_id = ?", fingerprintID).Order(order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list analyses %d: %w", fingerprintID, err)
	}
	return rows, nil
}

func (c *Client) VitalsHistory(ctx context.Context, fingerprintID int64, ascending bool) ([]Vitals, error) {
	order := "timestamp DESC, id DESC"
	if ascending {
		order = "timestamp ASC, id ASC"
	}
	var rows []Vitals
	if err := c.WithContext(ctx).Where("fingerprint_id = ?", fingerprintID).Order(order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vitals %d: %w", fingerprintID, err)
	}
	return rows, nil
}
