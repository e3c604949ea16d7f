package main

import (
	"context"
	"errors"
	"flag"

	"github.com/ablochha/multiwaycut/pkg/http"
	"github.com/ablochha/multiwaycut/pkg/http/usecases"
	"github.com/ablochha/multiwaycut/pkg/logger"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/ablochha/multiwaycut/pkg/util"
	"go.uber.org/zap"
)

var (
	configDir    = flag.String("config", "./data/", "directory holding config.yaml")
	solutionPath = flag.String("solution", "", "fractional solution served to requests that carry none")
	useRateLimit = flag.Bool("rate_limit", false, "throttle requests with RATE_LIMIT_RPS and RATE_LIMIT_BURST")
)

func main() {
	flag.Parse()
	configErr := util.ReadConfig(*configDir)
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	if configErr != nil {
		logger.Warn("no config file, using defaults", zap.Error(configErr))
	}

	cfg, err := util.LoadSolverConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var solver lp.FractionalSolver
	if *solutionPath != "" {
		solver = lp.NewFileSolver(*solutionPath)
	}
	service := usecases.NewMultiwayCutService(logger, cfg, solver)

	ctx, cancel := context.WithCancel(context.Background())
	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, service); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	logger.Info("multiwaycut server stopping", zap.String("signal", signal.String()))
	cancel()
	if err := api.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
