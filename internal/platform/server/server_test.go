package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ratishjain12/devx-rms/internal/platform/config"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func servingStatus(t *testing.T, s *Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	return resp.GetStatus()
}

func TestRefreshHealth_UpdatesStatus(t *testing.T) {
	t.Parallel()

	healthy := New(config.ServerConfig{}, http.NotFoundHandler(), stubPinger{})
	if got := servingStatus(t, healthy); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before the first check, got %v", got)
	}
	healthy.refreshHealth(context.Background())
	if got := servingStatus(t, healthy); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", got)
	}

	unhealthy := New(config.ServerConfig{}, http.NotFoundHandler(), stubPinger{err: errors.New("db down")})
	unhealthy.refreshHealth(context.Background())
	if got := servingStatus(t, unhealthy); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", got)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := New(config.ServerConfig{
		HTTPListenAddr: "127.0.0.1:0",
		GRPCListenAddr: "127.0.0.1:0",
	}, http.NotFoundHandler(), stubPinger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestRun_InvalidAddress(t *testing.T) {
	t.Parallel()

	srv := New(config.ServerConfig{HTTPListenAddr: "invalid-address"}, http.NotFoundHandler(), nil)
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
