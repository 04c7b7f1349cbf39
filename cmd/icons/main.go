// Package main starts the icons service process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	iconscmd "github.com/louisbranch/icondex/internal/cmd/icons"
)

func main() {
	cfg, err := iconscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ICONS] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := iconscmd.Run(ctx, cfg); err != nil {
		log.Fatalf("icons: %v", err)
	}
}
