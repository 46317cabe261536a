package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(MemoryConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestMigrator_AppliesOnce(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	calls := 0
	migs := []Migration{
		{Version: 2, Name: "add_note", Up: func(tx *gorm.DB) error {
			calls++
			return tx.Exec(`ALTER TABLE things ADD COLUMN note TEXT`).Error
		}},
		{Version: 1, Name: "things", Up: func(tx *gorm.DB) error {
			calls++
			return tx.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY)`).Error
		}},
	}

	n, err := NewMigrator(db, migs).Up(ctx)
	if err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if n != 2 || calls != 2 {
		t.Fatalf("Up() applied %d (calls %d), want 2", n, calls)
	}

	n, err = NewMigrator(db, migs).Up(ctx)
	if err != nil {
		t.Fatalf("second Up() error = %v", err)
	}
	if n != 0 || calls != 2 {
		t.Errorf("second Up() applied %d (calls %d), want 0", n, calls)
	}

	st, err := NewMigrator(db, migs).Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(st) != 2 || st[0].Version != 1 || !st[0].Applied || !st[1].Applied {
		t.Errorf("Status() = %+v", st)
	}
}

func TestMigrator_FailedStepRollsBack(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	migs := []Migration{
		{Version: 1, Name: "broken", Up: func(tx *gorm.DB) error {
			if err := tx.Exec(`CREATE TABLE half (id INTEGER)`).Error; err != nil {
				return err
			}
			return boom
		}},
	}

	if _, err := NewMigrator(db, migs).Up(ctx); !errors.Is(err, boom) {
		t.Fatalf("Up() error = %v, want boom", err)
	}
	if db.Migrator().HasTable("half") {
		t.Error("failed migration left its table behind")
	}
	st, _ := NewMigrator(db, migs).Status(ctx)
	if len(st) != 1 || st[0].Applied {
		t.Errorf("Status() = %+v, want unapplied", st)
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = "data/x.db"
	dsn := cfg.DSN()
	for _, want := range []string{"file:data/x.db?", "_foreign_keys=1", "_busy_timeout=5000", "_journal_mode=WAL"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN() = %q, missing %q", dsn, want)
		}
	}
	if strings.Contains(MemoryConfig().DSN(), "_journal_mode") {
		t.Error("memory DSN should not set WAL")
	}
}
