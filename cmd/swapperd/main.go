package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/paw-chain/swapper/cmd/swapperd/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
