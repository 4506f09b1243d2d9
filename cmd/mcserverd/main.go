// Command mcserverd runs the Minecraft Java Edition network-stack core as a
// single long-lived process: one TCP listener, one connection task per
// client, no subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mcserverd/internal/auth"
	"mcserverd/internal/config"
	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/server"
)

const serverVersion = "1.0.0"

func main() {
	configPath := flag.String("config", "server.yaml", "path to the server configuration file")
	versionFlag := flag.Bool("version", false, "print the server version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("mcserverd v%s (protocol 760 / 1.19.2)\n", serverVersion)
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mcserverd: building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", zap.Error(err))
		os.Exit(1)
	}
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	keys, err := cryptoengine.Generate()
	if err != nil {
		return fmt.Errorf("mcserverd: generating server keypair: %w", err)
	}

	var authClient auth.Client
	if cfg.OnlineMode {
		authClient = auth.NewMojangClient()
	}

	ctx := server.NewServerContext(cfg, keys, logger)
	listener, err := server.NewListener(ctx, authClient)
	if err != nil {
		return err
	}
	logger.Info("listening",
		zap.Stringer("addr", listener.Addr()),
		zap.Bool("online_mode", cfg.OnlineMode),
		zap.Int32("compression_threshold", cfg.CompressionThreshold),
	)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := listener.Serve(sigCtx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
