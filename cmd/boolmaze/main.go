package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/app"
	"github.com/vancomm/boolmaze-server/internal/config"
)

var envPath string

func init() {
	const usage = "env file path"
	flag.StringVar(&envPath, "env", ".env", usage)
	flag.StringVar(&envPath, "e", ".env", usage+" (shorthand)")
}

func main() {
	flag.Parse()

	if err := config.Load(envPath); err != nil {
		logrus.Fatalf("unable to load %s: %s", envPath, err)
	}

	log, err := config.NewLogger()
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	mode := "production"
	if config.Development() {
		mode = "development"
	}
	log.Info("starting up, mode = ", mode)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := app.New(log).Start(ctx); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
