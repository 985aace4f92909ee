// Command purificadora is the command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/purificadora/app-client/internal/app"
	"github.com/purificadora/app-client/internal/cli"
	"github.com/purificadora/app-client/internal/config"
	"github.com/purificadora/app-client/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log := logger.Init(logger.Options{Level: cfg.CLILogLevel, Pretty: true, Output: os.Stderr})

	client, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer client.Close()

	r := &cli.Runner{
		Auth:              client.Auth,
		Profile:           client.Profile,
		Products:          client.Products,
		Orders:            client.Orders,
		BaseURLs:          client.Factory,
		NewIdempotencyKey: uuid.NewString,
		Stdin:             os.Stdin,
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	}
	return r.Run(ctx, os.Args[1:])
}
