package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/Alijeyrad/triage_backend/pkg/database"
)

// Client is the data access handle shared by services.
type Client struct {
	*gorm.DB
}

func NewClient(db *gorm.DB) *Client {
	return &Client{DB: db}
}

// NewMemoryClient opens a migrated in-memory store.
func NewMemoryClient(ctx context.Context) (*Client, error) {
	db, err := database.Open(database.MemoryConfig())
	if err != nil {
		return nil, err
	}
	c := NewClient(db)
	if _, err := c.Migrate(ctx); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return c, nil
}

// Migrate applies pending schema migrations.
func (c *Client) Migrate(ctx context.Context) (int, error) {
	return database.NewMigrator(c.DB, Migrations()).Up(ctx)
}

func (c *Client) MigrationStatus(ctx context.Context) ([]database.MigrationStatus, error) {
	return database.NewMigrator(c.DB, Migrations()).Status(ctx)
}

// Tx runs fn in a transaction, rolling back when fn returns an error.
func (c *Client) Tx(ctx context.Context, fn func(tx *Client) error) error {
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Client{DB: tx})
	})
}

func (c *Client) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	if err := database.Close(c.DB); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsConstraintError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
