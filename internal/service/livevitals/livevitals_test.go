package livevitals

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestRedisFeed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	feed := New(rdb, 3*time.Second)
	ctx := context.Background()

	snap, err := feed.Latest(ctx)
	if err != nil || snap.Status != StatusDisconnected {
		t.Fatalf("Latest() before push = %+v, %v", snap, err)
	}

	if err := feed.Push(ctx, Reading{HeartRate: intp(72), SpO2: intp(0), Temperature: floatp(36.6)}); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	snap, err = feed.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap.Status != StatusConnected || *snap.HeartRate != 72 || snap.SpO2 != nil || *snap.Temperature != 36.6 {
		t.Errorf("Latest() = %+v", snap)
	}

	mr.FastForward(4 * time.Second)
	snap, _ = feed.Latest(ctx)
	if snap.Status != StatusDisconnected || snap.HeartRate != nil {
		t.Errorf("Latest() after TTL = %+v, want disconnected", snap)
	}
}

func TestMemoryFeed(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	feed := &memoryFeed{ttl: 5 * time.Second, now: func() time.Time { return now }}
	ctx := context.Background()

	snap, _ := feed.Latest(ctx)
	if snap.Status != StatusDisconnected {
		t.Fatalf("Latest() before push = %+v", snap)
	}

	_ = feed.Push(ctx, Reading{Weight: floatp(70), Height: floatp(-1)})
	now = now.Add(5 * time.Second)
	snap, _ = feed.Latest(ctx)
	if snap.Status != StatusConnected || *snap.Weight != 70 || snap.Height != nil {
		t.Errorf("Latest() = %+v", snap)
	}

	now = now.Add(time.Millisecond)
	snap, _ = feed.Latest(ctx)
	if snap.Status != StatusDisconnected {
		t.Errorf("Latest() past window = %+v, want disconnected", snap)
	}
}

func TestNew_DefaultsStaleWindow(t *testing.T) {
	f, ok := New(nil, 0).(*memoryFeed)
	if !ok {
		t.Fatal("New(nil) did not return the in-process feed")
	}
	if f.ttl != DefaultStaleAfter {
		t.Errorf("ttl = %v, want %v", f.ttl, DefaultStaleAfter)
	}
}
