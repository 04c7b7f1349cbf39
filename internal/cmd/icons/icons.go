// Package icons parses icons service flags and launches the service.
package icons

import (
	"context"
	"flag"
	"log"
	"time"

	entrypoint "github.com/louisbranch/icondex/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/icondex/internal/platform/grpc"
	"github.com/louisbranch/icondex/internal/platform/timeouts"
	server "github.com/louisbranch/icondex/internal/services/icons/app"
)

// Config holds icons command configuration.
type Config struct {
	GRPCAddr  string        `env:"ICONS_GRPC_ADDR"  envDefault:"localhost:8095"`
	HTTPAddr  string        `env:"ICONS_HTTP_ADDR"  envDefault:"localhost:8096"`
	Transport string        `env:"ICONS_TRANSPORT"  envDefault:"stdio"`
	Pack      string        `env:"ICONS_PACK"`
	Extra     string        `env:"ICONS_EXTRA"`
	Locale    string        `env:"ICONS_LOCALE"     envDefault:"en"`
	Preload   bool          `env:"ICONS_PRELOAD"`
	Probe     bool
	Timeout   time.Duration `env:"ICONS_PROBE_TIMEOUT" envDefault:"5s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "MCP HTTP address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio, http or none")
	fs.StringVar(&cfg.Pack, "pack", cfg.Pack, "base pack manifest (default builtin)")
	fs.StringVar(&cfg.Extra, "extra", cfg.Extra, "extra pack manifest")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "label locale (BCP 47)")
	fs.BoolVar(&cfg.Preload, "preload", cfg.Preload, "render every drawable at startup")
	fs.BoolVar(&cfg.Probe, "probe", false, "check the health of a running server and exit")
	fs.DurationVar(&cfg.Timeout, "probe-timeout", cfg.Timeout, "probe timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the icons service, or probes a running one.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Probe {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.Probe
		}
		return platformgrpc.Probe(ctx, cfg.GRPCAddr, server.HealthIcons, timeout, log.Printf)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceIcons, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			GRPCAddr:  cfg.GRPCAddr,
			HTTPAddr:  cfg.HTTPAddr,
			Transport: cfg.Transport,
			PackPath:  cfg.Pack,
			ExtraPath: cfg.Extra,
			Locale:    cfg.Locale,
			Preload:   cfg.Preload,
		})
	})
}
