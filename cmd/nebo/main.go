package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/valpere/nebo/internal/app"
	"github.com/valpere/nebo/internal/config"
	"github.com/valpere/nebo/internal/version"
)

func main() {
	// Command-line flags
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	// Handle version flag
	if *versionFlag {
		info := version.GetInfo()
		fmt.Println(info.String())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create application context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nebo, err := app.New(ctx, cfg, app.IO{In: os.Stdin, Out: os.Stdout, Log: os.Stderr})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- nebo.Start(ctx) }()

	// Wait for :q or an interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
		err = <-done
	case err = <-done:
	}

	if err != nil {
		log.Printf("Nebo exited with error: %v", err)
	}

	if err := nebo.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}
