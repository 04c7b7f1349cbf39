// Package main builds or queries the SQLite icon index.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	iconindexcmd "github.com/louisbranch/icondex/internal/cmd/iconindex"
	"github.com/louisbranch/icondex/internal/platform/config"
	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
)

func main() {
	cfg, err := iconindexcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(config.ExitUsage, "parse flags: %v", err)
	}
	log.SetPrefix("[ICON-INDEX] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := iconindexcmd.Run(ctx, cfg, os.Stdout); err != nil {
		if apperrors.GetCode(err).Usage() {
			config.ExitCodef(config.ExitUsage, "icon-index: %v", err)
		}
		config.Exitf("icon-index: %v", err)
	}
}
