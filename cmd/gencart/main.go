package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
	)

	code, err := run(ctx, app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gencart: %v\n", err)
	}
	stop()
	os.Exit(code)
}
