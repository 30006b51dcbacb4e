// Command crazyeights serves human-vs-computer Crazy Eights games over
// WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/config"
	"github.com/lisahua0613-lab/Crazy-EIGHT-cards-games-Lisa/internal/server"
	"github.com/sirupsen/logrus"
)

// Version is set by build flags.
var Version = "dev"

func main() {
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before reading the environment")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("crazyeights %s\n", Version)
		return
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	logger := logrus.StandardLogger()
	if err := cfg.ConfigureLogger(logger); err != nil {
		logger.WithError(err).Fatal("failed to configure logging")
	}
	logger.WithFields(logrus.Fields{
		"addr":    cfg.Addr,
		"aiDelay": cfg.AIDelay,
		"seed":    cfg.Seed,
		"version": Version,
	}).Info("starting crazyeights")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, logger).Run(ctx); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
	logger.Info("server stopped")
}
