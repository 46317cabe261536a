package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Alijeyrad/triage_backend/config"
)

func TestNewRedisFromCentral_Disabled(t *testing.T) {
	rdb, err := NewRedisFromCentral(context.Background(), config.RedisConfig{Addr: "unused:1"})
	if err != nil || rdb != nil {
		t.Fatalf("disabled redis = %v, %v; want nil, nil", rdb, err)
	}
}

func TestNewRedisFromCentral_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisFromCentral(context.Background(), config.RedisConfig{Enabled: true, Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisFromCentral() error = %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("stored value = %q", got)
	}
}

func TestNewRedis_Errors(t *testing.T) {
	if _, err := NewRedis(context.Background(), Config{}); err == nil {
		t.Error("empty addr should fail")
	}

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 200 * time.Millisecond
	if _, err := NewRedis(context.Background(), cfg); err == nil {
		t.Error("unreachable addr should fail the ping")
	}
}

func TestFromCentralConfig_Defaults(t *testing.T) {
	cfg := FromCentralConfig(config.RedisConfig{Addr: "r:6379", ReadTimeoutSeconds: 7})
	if cfg.PoolSize != 10 || cfg.DialTimeout != 5*time.Second {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	if cfg.ReadTimeout != 7*time.Second {
		t.Errorf("ReadTimeout = %s", cfg.ReadTimeout)
	}
}
