package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestServe_ListenErrorIsReturned(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	e := echo.New()
	e.HideBanner, e.HidePort = true, true
	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), e, ln.Addr().String(), zerolog.Nop()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an error for an address in use")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return on a listen failure")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	e := echo.New()
	e.HideBanner, e.HidePort = true, true
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, e, "127.0.0.1:0", zerolog.Nop()) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
