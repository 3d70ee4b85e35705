package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"
)

// run blocks until ctx is cancelled or a component asks fx to shut down,
// and returns the process exit code.
func run(ctx context.Context, app *fx.App) (int, error) {
	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return 1, fmt.Errorf("start: %w", err)
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancelStop := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return 1, fmt.Errorf("stop: %w", err)
	}
	return code, nil
}
