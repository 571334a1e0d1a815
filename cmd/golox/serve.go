package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/golox/pkg/api"
	grpcapi "github.com/lemonberrylabs/golox/pkg/api/grpc"
	"github.com/lemonberrylabs/golox/pkg/lox"
	"github.com/lemonberrylabs/golox/pkg/store"
	"github.com/lemonberrylabs/golox/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lox playground HTTP and gRPC servers",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port (default 8787, env GOLOX_PORT)")
	serveCmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GOLOX_GRPC_PORT)")
	serveCmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env GOLOX_HOST)")
	serveCmd.Flags().Int("max-steps", -1, "Step budget per evaluation, 0 for none (default 1000000, env GOLOX_MAX_STEPS)")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Server.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.Server.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Server.Host = v
	}
	if v, _ := cmd.Flags().GetInt("max-steps"); v >= 0 {
		cfg.Server.MaxSteps = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	grpcAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort)

	s := store.New(
		lox.WithMaxSteps(cfg.Server.MaxSteps),
		lox.WithMaxCallDepth(cfg.Runtime.MaxCallDepth),
		lox.WithLogger(newLogger(cfg)),
	)

	var opts []api.Option
	if cfg.Log.Verbose {
		opts = append(opts, api.WithRequestLog(os.Stderr))
	}
	server := api.New(s, opts...)

	web.New(s).Register(server.App())

	// Start gRPC server
	grpcServer := grpcapi.New(s)
	go func() {
		log.Printf("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(grpcAddr); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down playground...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("golox playground listening on %s (max steps %d)", addr, cfg.Server.MaxSteps)
	return server.Listen(addr)
}
