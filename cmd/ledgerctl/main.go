// Package main provides the Bits ledger operator CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/bitarcade/internal/platform/config"
	"github.com/louisbranch/bitarcade/internal/platform/otel"
	"github.com/louisbranch/bitarcade/internal/tools/ledgerctl"
)

func main() {
	cfg, err := ledgerctl.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	shutdown, err := otel.Setup(ctx, "ledgerctl")
	if err != nil {
		config.Exitf("Error: setup tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	if err := ledgerctl.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
