// Package livevitals keeps the most recent reading pushed by the bedside
// sensor bridge. A reading older than the stale window reads as
// disconnected.
package livevitals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"

	DefaultStaleAfter = 5 * time.Second

	redisKeyLatest = "live_vitals:latest"
)

// Reading is one sensor sample. Nil fields were not measured; zero or
// negative values from the sensor are treated as not measured.
type Reading struct {
	HeartRate   *int     `json:"heart_rate"`
	SpO2        *int     `json:"spo2"`
	Temperature *float64 `json:"temperature"`
	Weight      *float64 `json:"weight"`
	Height      *float64 `json:"height"`
}

// Snapshot is what the intake screen polls.
type Snapshot struct {
	Status string `json:"status"`
	Reading
	ReceivedAt *time.Time `json:"received_at"`
}

type Feed interface {
	Push(ctx context.Context, r Reading) error
	Latest(ctx context.Context) (*Snapshot, error)
}

// New returns a Redis-backed feed when rdb is set, else an in-process one.
func New(rdb *redis.Client, staleAfter time.Duration) Feed {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if rdb != nil {
		return &redisFeed{rdb: rdb, ttl: staleAfter}
	}
	return &memoryFeed{ttl: staleAfter, now: time.Now}
}

func disconnected() *Snapshot {
	return &Snapshot{Status: StatusDisconnected}
}

type stored struct {
	Reading
	ReceivedAt time.Time `json:"received_at"`
}

// ---------------------------------------------------------------------------
// Redis
// ---------------------------------------------------------------------------

type redisFeed struct {
	rdb *redis.Client
	ttl time.Duration
}

func (f *redisFeed) Push(ctx context.Context, r Reading) error {
	raw, err := json.Marshal(stored{Reading: r.clean(), ReceivedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := f.rdb.Set(ctx, redisKeyLatest, raw, f.ttl).Err(); err != nil {
		return fmt.Errorf("push live vitals: %w", err)
	}
	return nil
}

func (f *redisFeed) Latest(ctx context.Context) (*Snapshot, error) {
	raw, err := f.rdb.Get(ctx, redisKeyLatest).Bytes()
	if errors.Is(err, redis.Nil) {
		return disconnected(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read live vitals: %w", err)
	}
	var s stored
	if err := json.Unmarshal(raw, &s); err != nil {
		return disconnected(), nil
	}
	return &Snapshot{Status: StatusConnected, Reading: s.Reading, ReceivedAt: &s.ReceivedAt}, nil
}

// ---------------------------------------------------------------------------
// In-process
// ---------------------------------------------------------------------------

type memoryFeed struct {
	mu   sync.RWMutex
	last *stored
	ttl  time.Duration
	now  func() time.Time
}

func (f *memoryFeed) Push(_ context.Context, r Reading) error {
	s := &stored{Reading: r.clean(), ReceivedAt: f.now().UTC()}
	f.mu.Lock()
	f.last = s
	f.mu.Unlock()
	return nil
}

func (f *memoryFeed) Latest(_ context.Context) (*Snapshot, error) {
	f.mu.RLock()
	last := f.last
	f.mu.RUnlock()

	if last == nil || f.now().Sub(last.ReceivedAt) > f.ttl {
		return disconnected(), nil
	}
	at := last.ReceivedAt
	return &Snapshot{Status: StatusConnected, Reading: last.Reading, ReceivedAt: &at}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r Reading) clean() Reading {
	return Reading{
		HeartRate:   positiveInt(r.HeartRate),
		SpO2:        positiveInt(r.SpO2),
		Temperature: positiveFloat(r.Temperature),
		Weight:      positiveFloat(r.Weight),
		Height:      positiveFloat(r.Height),
	}
}

func positiveInt(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func positiveFloat(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
