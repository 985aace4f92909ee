package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "localhost:6379", DB: 2}.options()
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Fatalf("expected default timeouts, got %+v", opts)
	}
	if opts.ClientName != clientName || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}

	if got := (Config{Timeout: time.Second}).options().WriteTimeout; got != time.Second {
		t.Fatalf("expected the configured timeout, got %v", got)
	}
}

func TestConnect_EmptyAddr(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatalf("expected an error for an empty address")
	}
}
