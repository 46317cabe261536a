package repo

import "time"

// Table and column names match the prototype's SQLite layout so an existing
// database file keeps working after migration.

type Patient struct {
	FingerprintID int64     `gorm:"column:fingerprint_id;primaryKey;autoIncrement:false" json:"fingerprint_id"`
	Name          string    `gorm:"not null" json:"name"`
	Age           int       `gorm:"not null" json:"age"`
	Sex           string    `gorm:"not null" json:"sex"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Patient) TableName() string { return "patients" }

type Vitals struct {
	ID            int64     `gorm:"primaryKey" json:"-"`
	FingerprintID int64     `gorm:"column:fingerprint_id;not null;index" json:"-"`
	Weight        *float64  `json:"weight"`
	Height        *float64  `json:"height"`
	HeartRate     *int      `gorm:"column:heart_rate" json:"heart_rate"`
	SpO2          *int      `gorm:"column:spo2" json:"spo2"`
	Temperature   *float64  `json:"temperature"`
	BloodPressure *string   `gorm:"column:blood_pressure" json:"blood_pressure"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
}

func (Vitals) TableName() string { return "vitals" }

// PainAnalysis is pending while Severity is nil.
type PainAnalysis struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	FingerprintID  int64     `gorm:"column:fingerprint_id;not null;index" json:"-"`
	BodyPart       string    `gorm:"column:body_part;not null" json:"body_part"`
	SpecificArea   *string   `gorm:"column:specific_area" json:"specific_area"`
	Questions      []string  `gorm:"serializer:json" json:"questions"`
	Answers        []string  `gorm:"serializer:json" json:"answers"`
	Severity       *string   `json:"severity"`
	Summary        *string   `gorm:"column:ai_summary" json:"ai_summary"`
	Recommendation *string   `json:"recommendation"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`
}

func (PainAnalysis) TableName() string { return "pain_analysis" }

func (a *PainAnalysis) Pending() bool { return a.Severity == nil }

type MedicalHistory struct {
	FingerprintID      int64     `gorm:"column:fingerprint_id;primaryKey;autoIncrement:false"`
	CurrentAllergies   string    `gorm:"column:current_allergies"`
	PastAllergies      string    `gorm:"column:past_allergies"`
	CurrentMedications string    `gorm:"column:current_medications"`
	PastMedications    string    `gorm:"column:past_medications"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (MedicalHistory) TableName() string { return "medical_history" }

type Doctor struct {
	DoctorID     string `gorm:"column:doctor_id;primaryKey"`
	PasswordHash string `gorm:"column:password;not null"`
}

func (Doctor) TableName() string { return "doctors" }

type DoctorDocument struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	FingerprintID int64     `gorm:"column:fingerprint_id;not null;index" json:"-"`
	Filename      string    `gorm:"not null" json:"filename"`
	StorageKey    string    `gorm:"column:filepath;not null" json:"-"`
	Size          int64     `json:"size"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (DoctorDocument) TableName() string { return "doctor_documents" }
