package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"recipes-tsae/pkg/config"
	"recipes-tsae/pkg/node"
	"recipes-tsae/pkg/util/logging"
)

func main() {
	path := flag.String("config", "cmd/config.yaml", "path to the node config")
	flag.Parse()

	cfg, err := config.Read(*path)
	if err != nil {
		panic(err)
	}
	cfg.PopulateDefaults()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := logging.InitDefault(cfg.Node.ID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := node.New(cfg, node.WithLogger(logger))
	if err != nil {
		logger.Error("cannot create node", "error", err)
		os.Exit(1)
	}
	if err := n.Start(ctx); err != nil {
		logger.Error("cannot start node", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	if err := n.Close(); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("bye")
}
