package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/rpc"
)

func main() {
	cfg, err := config.Default().ApplyEnv(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	port := pflag.IntP("port", "p", 50051, "The server port")
	cfg.BindFlags(pflag.CommandLine)
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		logging.Error("failed to listen", "port", *port, "error", err)
		os.Exit(1)
	}

	s := rpc.NewGRPCServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logging.Info("shutting down")
		s.GracefulStop()
	}()

	logging.Info("gRPC server listening", "port", *port, "service", rpc.ServiceName,
		"minutes", cfg.Minutes, "workers", cfg.Workers, "timeout", cfg.Timeout)
	if err := s.Serve(lis); err != nil {
		logging.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
