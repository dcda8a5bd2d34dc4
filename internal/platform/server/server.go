package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ratishjain12/devx-rms/internal/platform/config"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	defaultHealthInterval = 10 * time.Second
	healthPingTimeout     = 2 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Pinger はデータベースの疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server は HTTP API と gRPC ヘルスチェックのライフサイクルを管理します。
type Server struct {
	httpAddr       string
	grpcAddr       string
	httpServer     *http.Server
	grpcServer     *grpc.Server
	health         *health.Server
	pinger         Pinger
	healthInterval time.Duration
}

// New は HTTP ハンドラーとヘルスチェック用の gRPC サーバーを構築します。
// cfg.GRPCListenAddr が空の場合 gRPC サーバーは起動しません。
func New(cfg config.ServerConfig, handler http.Handler, pinger Pinger, opts ...grpc.ServerOption) *Server {
	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpAddr:       cfg.HTTPListenAddr,
		grpcAddr:       cfg.GRPCListenAddr,
		httpServer:     httpServer,
		grpcServer:     grpcServer,
		health:         healthServer,
		pinger:         pinger,
		healthInterval: defaultHealthInterval,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると両方を安全に停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcAddr != "" {
		grpcLis, err = net.Listen("tcp", s.grpcAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP server listening on %s", httpLis.Addr())
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			log.Printf("gRPC health server listening on %s", grpcLis.Addr())
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.watchHealth(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.grpcServer.GracefulStop()
	if err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}

func (s *Server) watchHealth(ctx context.Context) {
	s.refreshHealth(ctx)

	ticker := time.NewTicker(s.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshHealth(ctx)
		}
	}
}

// refreshHealth はデータベースへの疎通結果を gRPC ヘルスステータスへ反映します。
func (s *Server) refreshHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		defer cancel()
		if err := s.pinger.Ping(pingCtx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("health check failed: %v", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
}
