// Package main runs the mock Selling Partner API for local development.
// Point the CLI at it with --endpoint and --token-url:
//
//	go run ./tools/mock-server -port 8089
//	spapi --endpoint http://localhost:8089 \
//	  --token-url http://localhost:8089/auth/o2/token sellers account
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donaldgifford/spapi/internal/mockapi"
	"github.com/donaldgifford/spapi/pkg/logger"
)

type options struct {
	port          int
	tokenLifetime time.Duration
	logLevel      string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("mock-server", flag.ContinueOnError)
	fs.IntVar(&o.port, "port", 8089, "port to listen on")
	fs.DurationVar(&o.tokenLifetime, "token-lifetime", time.Hour, "expires_in of issued access tokens")
	fs.StringVar(&o.logLevel, "log-level", "debug", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.tokenLifetime < time.Second {
		return options{}, fmt.Errorf("token-lifetime must be at least 1s, got %s", o.tokenLifetime)
	}
	return o, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	log := logger.New(o.logLevel, "text")

	srv := mockapi.New(
		mockapi.WithLogger(log),
		mockapi.WithTokenLifetime(o.tokenLifetime),
	)
	e := srv.Handler()

	addr := fmt.Sprintf(":%d", o.port)
	log.Info("starting mock selling partner api", "addr", addr, "token_lifetime", o.tokenLifetime)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down mock server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down mock server: %w", err)
	}
	return nil
}
