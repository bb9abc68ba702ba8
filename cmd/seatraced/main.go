package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"seatrace/config"
	"seatrace/core"
	"seatrace/gateway"
	"seatrace/observability/logging"
	"seatrace/rpc"
	"seatrace/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SEATRACE_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("seatraced", env, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	node := core.NewNode(db)

	token := cfg.RPCToken()
	if token == "" {
		logger.Warn("RPC token not configured, mutating methods will be rejected")
	}

	rpcServer := rpc.NewServer(node, token)
	gw := gateway.New(node)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("Starting JSON-RPC server", slog.String("address", cfg.RPCAddress))
		errCh <- rpcServer.Start(cfg.RPCAddress)
	}()
	go func() {
		logger.Info("Starting gateway", slog.String("address", cfg.GatewayAddress))
		errCh <- gw.Start(cfg.GatewayAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server exited", slog.Any("error", err))
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
	}
}
