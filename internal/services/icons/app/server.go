// Package server wires the icon library, its MCP surface and the gRPC health
// endpoint into one process lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	platformgrpc "github.com/louisbranch/icondex/internal/platform/grpc"
	"github.com/louisbranch/icondex/internal/platform/timeouts"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/mcp/service"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
)

// Health service names reported on the gRPC health endpoint.
const (
	HealthIcons     = "icondex.icons"
	HealthDrawables = "icondex.drawables"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportNone  = "none"
)

// Config describes what the server loads and where it listens.
type Config struct {
	GRPCAddr  string
	HTTPAddr  string
	Transport string
	// PackPath is a manifest on disk. Empty selects the builtin pack.
	PackPath string
	// ExtraPath is an optional second manifest layered on the base pack.
	ExtraPath string
	Locale    string
	// Preload renders every drawable in the background after loading.
	Preload bool
}

// Server hosts the icon library over MCP and gRPC health.
type Server struct {
	lib        *library.Library
	mcp        *service.Server
	transport  string
	listener   net.Listener
	grpcServer *grpc.Server
	health     *platformgrpc.Health
	http       *http.Server
	httpLn     net.Listener
	hangup     chan os.Signal
}

// New loads the packs and binds the listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	transport := strings.TrimSpace(cfg.Transport)
	if transport == "" {
		transport = TransportStdio
	}
	switch transport {
	case TransportStdio, TransportHTTP, TransportNone:
	default:
		return nil, fmt.Errorf("transport %q is not supported", transport)
	}

	lib, err := openLibrary(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mcpServer, err := service.New(lib)
	if err != nil {
		lib.Close()
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		lib.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	s := &Server{
		lib:       lib,
		mcp:       mcpServer,
		transport: transport,
		listener:  listener,
		hangup:    make(chan os.Signal, 1),
	}
	s.grpcServer = grpc.NewServer(platformgrpc.ServerOptions()...)
	s.health = platformgrpc.RegisterHealth(s.grpcServer, HealthIcons, HealthDrawables)

	if transport == TransportHTTP {
		addr := cfg.HTTPAddr
		if addr == "" {
			addr = "localhost:8081"
		}
		httpLn, err := net.Listen("tcp", addr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen on %s: %w", addr, err)
		}
		s.httpLn = httpLn
		s.http = &http.Server{Handler: mcpServer.Handler(), ReadHeaderTimeout: timeouts.ReadHeader}
	}

	if cfg.Preload {
		lib.StartDrawableCache()
	}
	return s, nil
}

func openLibrary(ctx context.Context, cfg Config) (*library.Library, error) {
	var opts []library.Option
	if locale := strings.TrimSpace(cfg.Locale); locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		opts = append(opts, library.WithLocale(tag))
	}

	base, err := pack.Open(cfg.PackPath)
	if err != nil {
		return nil, err
	}
	lib, err := library.Open(ctx, base, opts...)
	if err != nil {
		return nil, fmt.Errorf("load base pack %s: %w", base.Name(), err)
	}
	if cfg.ExtraPath != "" {
		extra, err := pack.Open(cfg.ExtraPath)
		if err != nil {
			lib.Close()
			return nil, err
		}
		if err := lib.AddExtraPack(ctx, extra); err != nil {
			lib.Close()
			return nil, fmt.Errorf("load extra pack %s: %w", extra.Name(), err)
		}
	}
	return lib, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the MCP HTTP listener address, or "" without HTTP.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpLn == nil {
		return ""
	}
	return s.httpLn.Addr().String()
}

// Library returns the served library.
func (s *Server) Library() *library.Library {
	return s.lib
}

// Reload reloads labels for the active locale.
func (s *Server) Reload(ctx context.Context) error {
	if err := s.lib.ReloadLabels(ctx); err != nil {
		return fmt.Errorf("reload labels: %w", err)
	}
	log.Printf("reloaded %d labels for %s", len(s.lib.Labels()), s.lib.Locale())
	return nil
}

// Run creates and serves a server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs gRPC health, the MCP transport and the SIGHUP reload loop until
// the context ends. With stdio, the server also stops when the client closes
// its input.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signal.Notify(s.hangup, syscall.SIGHUP)
	defer signal.Stop(s.hangup)

	g, gctx := errgroup.WithContext(ctx)

	log.Printf("icons health listening at %v", s.listener.Addr())
	g.Go(func() error {
		err := s.grpcServer.Serve(s.listener)
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.lib.CancelDrawableCache()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	})

	switch s.transport {
	case TransportStdio:
		g.Go(func() error {
			defer cancel()
			return s.mcp.Serve(gctx)
		})
	case TransportHTTP:
		log.Printf("icons MCP listening at http://%v/mcp", s.httpLn.Addr())
		g.Go(func() error {
			if err := s.http.Serve(s.httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
			defer cancel()
			if err := s.http.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown HTTP server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.reloadOnHangup(gctx)
		return nil
	})
	g.Go(func() error {
		s.lib.WaitDrawableCache()
		if gctx.Err() == nil && s.lib.CachedDrawables() > 0 {
			s.health.SetServing(HealthDrawables, true)
		}
		return nil
	})

	s.health.SetServing("", true)
	s.health.SetServing(HealthIcons, true)

	return g.Wait()
}

func (s *Server) reloadOnHangup(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.hangup:
			if err := s.Reload(ctx); err != nil {
				log.Printf("SIGHUP: %v", err)
			}
		}
	}
}

// Close releases listeners and stops the drawable cache.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.http != nil {
		_ = s.http.Close()
	} else if s.httpLn != nil {
		_ = s.httpLn.Close()
	}
	if s.lib != nil {
		s.lib.Close()
	}
}
