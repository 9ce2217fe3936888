package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"saferoot/internal/config"
	"saferoot/internal/server"
)

// main launches saferootd.
func main() {
	os.Exit(run())
}

// run executes saferootd and returns an exit code.
func run() int {
	configPath := flag.String("config", "saferoot.yml", "path to saferootd config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "saferootd listening on %s\n", cfg.Server.ListenAddr)
	if err := server.Serve(ctx, server.Config{App: cfg, LogWriter: os.Stderr}); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}
