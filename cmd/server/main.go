// Command server starts the flowquest traversal engine's reference HTTP
// binding.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-read-timeout duration
//	    HTTP read timeout (default 30s)
//	-write-timeout duration
//	    HTTP write timeout (default 30s)
//	-request-timeout duration
//	    Per-walk request timeout (default 10s)
//	-rate-limit float
//	    Requests/sec allowed per client (default 50)
//	-rate-limit-burst int
//	    Token bucket burst capacity per client (default 100)
//
// The server exposes:
//
//	POST /v1/api/next_question_flow  - run one Walk call
//	GET  /health, /health/live, /health/ready
//	GET  /metrics
//
// No concrete graph-database driver ships with this module (graph storage
// is out of scope), so this binary runs the engine against an empty
// graph.InMemoryStore. Wire a real graph.Session in a fork of main to point
// the engine at an actual store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/config"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	requestTimeout := flag.Duration("request-timeout", 10*time.Second, "Per-walk request timeout")
	rateLimit := flag.Float64("rate-limit", 50, "Requests/sec allowed per client")
	rateLimitBurst := flag.Int64("rate-limit-burst", 100, "Token bucket burst capacity per client")

	flag.Parse()

	cfg := server.DefaultConfig()
	cfg.Address = *addr
	cfg.ReadTimeout = *readTimeout
	cfg.WriteTimeout = *writeTimeout
	cfg.RequestTimeout = *requestTimeout
	cfg.RateLimitPerSecond = *rateLimit
	cfg.RateLimitBurst = *rateLimitBurst

	eng := server.NewInMemoryEngine(map[string][]graph.Record{}, config.Production())

	srv, err := server.New(cfg, eng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Starting flowquest traversal engine server on %s\n", *addr)
		fmt.Printf("Health check:    http://localhost%s/health\n", *addr)
		fmt.Printf("Liveness probe:  http://localhost%s/health/live\n", *addr)
		fmt.Printf("Readiness probe: http://localhost%s/health/ready\n", *addr)
		fmt.Printf("Metrics:         http://localhost%s/metrics\n", *addr)
		fmt.Printf("API endpoint:    http://localhost%s/v1/api/next_question_flow\n", *addr)
		fmt.Println("\nPress Ctrl+C to shutdown")

		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("\nreceived signal: %v\nshutting down gracefully...\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("server stopped")
	}
}
