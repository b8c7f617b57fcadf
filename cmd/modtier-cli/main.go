package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/modtier/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = os.Stderr.WriteString("modtier-cli: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
