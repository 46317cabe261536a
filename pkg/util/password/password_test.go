package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/Alijeyrad/triage_backend/config"
)

// small parameters keep the suite fast
func testHasher() *Hasher {
	return New(Config{MemoryKiB: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHash(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("demo123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("Hash() format invalid, got %s", hash)
	}
	if !IsHash(hash) {
		t.Error("IsHash() = false for a fresh hash")
	}

	other, _ := h.Hash("demo123")
	if hash == other {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerify(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("demo123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, "demo123", nil},
		{"wrong password", hash, "demo124", ErrMismatch},
		{"empty password", hash, "", ErrMismatch},
		{"plaintext stored value", "demo123", "demo123", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", "x", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", "x", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Verify(tt.hash, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	h := testHasher()
	hash, _ := h.Hash("pw")

	if h.NeedsRehash(hash) {
		t.Error("NeedsRehash() = true for current parameters")
	}

	stronger := New(Config{MemoryKiB: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if !stronger.NeedsRehash(hash) {
		t.Error("NeedsRehash() = false after parameters changed")
	}
	// old hashes still verify under the new hasher
	if err := stronger.Verify(hash, "pw"); err != nil {
		t.Errorf("Verify() with changed parameters error = %v", err)
	}
	if !h.NeedsRehash("garbage") {
		t.Error("NeedsRehash() = false for an invalid hash")
	}
}

func TestFromCentralConfig_KeepsDefaults(t *testing.T) {
	cfg := FromCentralConfig(config.PasswordConfig{Iterations: 5})
	if cfg.Iterations != 5 || cfg.MemoryKiB != DefaultConfig().MemoryKiB {
		t.Errorf("FromCentralConfig() = %+v", cfg)
	}
}
