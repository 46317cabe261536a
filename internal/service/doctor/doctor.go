package doctor

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	pasetotoken "github.com/Alijeyrad/triage_backend/pkg/paseto"
	"github.com/Alijeyrad/triage_backend/pkg/util/password"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

func redisKeyLoginAttempts(doctorID string) string { return "login:attempts:" + doctorID }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	DoctorID string
	Password string
}

type Session struct {
	DoctorID    string
	AccessToken string
	ExpiresIn   int64 // seconds
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	// SeedDefault creates the doctor when absent. Returns true if created.
	SeedDefault(ctx context.Context, doctorID, plain string) (bool, error)
	// SetPassword creates the doctor or replaces their password, and clears
	// any login lockout. Returns true if the account was created.
	SetPassword(ctx context.Context, doctorID, plain string) (bool, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type doctorService struct {
	db     *repo.Client
	rdb    *redis.Client
	hasher *password.Hasher
	paseto *pasetotoken.Manager
	// compared against for unknown doctors so both paths cost one hash
	dummy string
}

// New builds the service. rdb may be nil, which disables the login lockout.
// A nil paseto manager issues no token.
func New(db *repo.Client, rdb *redis.Client, hasher *password.Hasher, paseto *pasetotoken.Manager) Service {
	dummy, _ := hasher.Hash("not-a-real-password")
	return &doctorService{db: db, rdb: rdb, hasher: hasher, paseto: paseto, dummy: dummy}
}

func (s *doctorService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	if req.DoctorID == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	if s.locked(ctx, req.DoctorID) {
		return nil, ErrAccountLocked
	}

	var rows []repo.Doctor
	if err := s.db.WithContext(ctx).Where("doctor_id = ?", req.DoctorID).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	if len(rows) == 0 {
		_ = s.hasher.Verify(s.dummy, req.Password)
		s.recordFailure(ctx, req.DoctorID)
		return nil, ErrInvalidCredentials
	}
	d := rows[0]

	ok, err := s.verify(ctx, &d, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.recordFailure(ctx, req.DoctorID)
		return nil, ErrInvalidCredentials
	}
	s.clearFailures(ctx, req.DoctorID)

	out := &Session{DoctorID: d.DoctorID}
	if s.paseto != nil {
		tok, err := s.paseto.IssueAccess(d.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		out.AccessToken = tok
		out.ExpiresIn = int64(s.paseto.AccessTTL().Seconds())
	}

	slog.Info("doctor logged in", "doctor_id", d.DoctorID)
	return out, nil
}

// verify checks the stored credential. Rows imported from older stores hold
// the plain password; a match upgrades them to an argon2id hash.
func (s *doctorService) verify(ctx context.Context, d *repo.Doctor, plain string) (bool, error) {
	err := s.hasher.Verify(d.PasswordHash, plain)
	switch {
	case err == nil:
		if s.hasher.NeedsRehash(d.PasswordHash) {
			s.store(ctx, d, plain)
		}
		return true, nil
	case errors.Is(err, password.ErrMismatch):
		return false, nil
	case errors.Is(err, password.ErrInvalidHash):
		if subtle.ConstantTimeCompare([]byte(d.PasswordHash), []byte(plain)) != 1 {
			return false, nil
		}
		s.store(ctx, d, plain)
		return true, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

// store rehashes; a failure keeps the old credential valid.
func (s *doctorService) store(ctx context.Context, d *repo.Doctor, plain string) {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		slog.Warn("password rehash failed", "doctor_id", d.DoctorID, "error", err)
		return
	}
	err = s.db.WithContext(ctx).Model(&repo.Doctor{}).
		Where("doctor_id = ?", d.DoctorID).
		Update("password", hash).Error
	if err != nil {
		slog.Warn("password rehash not stored", "doctor_id", d.DoctorID, "error", err)
		return
	}
	d.PasswordHash = hash
}

func (s *doctorService) SeedDefault(ctx context.Context, doctorID, plain string) (bool, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" || plain == "" {
		return false, ErrMissingCredentials
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&repo.Doctor{}).Where("doctor_id = ?", doctorID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count doctors: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(&repo.Doctor{DoctorID: doctorID, PasswordHash: hash}).Error; err != nil {
		return false, fmt.Errorf("create doctor: %w", err)
	}
	return true, nil
}

func (s *doctorService) SetPassword(ctx context.Context, doctorID, plain string) (bool, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" || plain == "" {
		return false, ErrMissingCredentials
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.db.Tx(ctx, func(tx *repo.Client) error {
		res := tx.Model(&repo.Doctor{}).Where("doctor_id = ?", doctorID).Update("password", hash)
		if res.Error != nil {
			return fmt.Errorf("update doctor: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		created = true
		if err := tx.Create(&repo.Doctor{DoctorID: doctorID, PasswordHash: hash}).Error; err != nil {
			return fmt.Errorf("create doctor: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.clearFailures(ctx, doctorID)
	slog.InfoContext(ctx, "doctor password set", "doctor_id", doctorID, "created", created)
	return created, nil
}

// ---------------------------------------------------------------------------
// Lockout
// ---------------------------------------------------------------------------

func (s *doctorService) locked(ctx context.Context, doctorID string) bool {
	if s.rdb == nil {
		return false
	}
	n, err := s.rdb.Get(ctx, redisKeyLoginAttempts(doctorID)).Int()
	if err != nil {
		return false
	}
	return n >= maxLoginAttempts
}

func (s *doctorService) recordFailure(ctx context.Context, doctorID string) {
	if s.rdb == nil {
		return
	}
	key := redisKeyLoginAttempts(doctorID)
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, accountLockMins*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("login attempt not recorded", "doctor_id", doctorID, "error", err)
	}
}

func (s *doctorService) clearFailures(ctx context.Context, doctorID string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, redisKeyLoginAttempts(doctorID)).Err()
}
