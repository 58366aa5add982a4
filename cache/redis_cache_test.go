package cache

import (
	"context"
	"testing"
	"time"
)

var _ Cache = (*RedisCache)(nil)
var _ Cache = Noop{}

func TestRedisCachePingUnreachable(t *testing.T) {
	c := NewRedisCache("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Error("expected ping to fail against an unreachable address")
	}
}

func TestNoopAlwaysMisses(t *testing.T) {
	n := Noop{}
	ctx := context.Background()

	if err := n.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok, err := n.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || val != nil {
		t.Errorf("noop returned a hit: %v", val)
	}
}
