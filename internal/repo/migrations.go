package repo

import (
	"gorm.io/gorm"

	"github.com/Alijeyrad/triage_backend/pkg/database"
)

// Migrations returns the ordered schema history.
func Migrations() []database.Migration {
	return []database.Migration{
		{Version: 1, Name: "initial_schema", Up: migrateInitial},
		{Version: 2, Name: "pain_analysis_area_and_recommendation", Up: migrateAnalysisColumns},
		{Version: 3, Name: "doctor_documents_size", Up: migrateDocumentSize},
	}
}

// IF NOT EXISTS lets version 1 adopt a database created by the prototype.
var initialSchema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		fingerprint_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		sex TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vitals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint_id INTEGER NOT NULL REFERENCES patients(fingerprint_id) ON DELETE CASCADE,
		weight REAL,
		height REAL,
		heart_rate INTEGER,
		spo2 INTEGER,
		temperature REAL,
		blood_pressure TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vitals_patient_ts ON vitals (fingerprint_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS medical_history (
		fingerprint_id INTEGER PRIMARY KEY REFERENCES patients(fingerprint_id) ON DELETE CASCADE,
		current_allergies TEXT,
		past_allergies TEXT,
		current_medications TEXT,
		past_medications TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS pain_analysis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint_id INTEGER NOT NULL REFERENCES patients(fingerprint_id) ON DELETE CASCADE,
		body_part TEXT NOT NULL,
		questions TEXT,
		answers TEXT,
		severity TEXT,
		ai_summary TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pain_analysis_patient_part ON pain_analysis (fingerprint_id, body_part)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		doctor_id TEXT PRIMARY KEY,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS doctor_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint_id INTEGER NOT NULL REFERENCES patients(fingerprint_id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		filepath TEXT NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

func migrateInitial(tx *gorm.DB) error {
	for _, stmt := range initialSchema {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Older stores were created before the area and recommendation columns.
func migrateAnalysisColumns(tx *gorm.DB) error {
	return addMissingColumns(tx, "pain_analysis", map[string]string{
		"specific_area":  "TEXT",
		"recommendation": "TEXT",
	})
}

func migrateDocumentSize(tx *gorm.DB) error {
	return addMissingColumns(tx, "doctor_documents", map[string]string{
		"size": "INTEGER NOT NULL DEFAULT 0",
	})
}

func addMissingColumns(tx *gorm.DB, table string, cols map[string]string) error {
	for _, name := range sortedKeys(cols) {
		if tx.Migrator().HasColumn(table, name) {
			continue
		}
		if err := tx.Exec("ALTER TABLE " + table + " ADD COLUMN " + name + " " + cols[name]).Error; err != nil {
			return err
		}
	}
	return nil
}
