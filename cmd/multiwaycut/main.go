package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ablochha/multiwaycut/pkg/engine"
	"github.com/ablochha/multiwaycut/pkg/graphparser"
	"github.com/ablochha/multiwaycut/pkg/logger"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/ablochha/multiwaycut/pkg/util"
	"go.uber.org/zap"
)

var (
	graphPath    = flag.String("graph", "", "graph file, native or DIMACS, optionally .bz2")
	solutionPath = flag.String("solution", "", "fractional solution file (\"id x1 .. xk\" lines), optionally .bz2")
	configDir    = flag.String("config", "./data/", "directory holding config.yaml")
	strategies   = flag.String("strategies", "", "comma separated strategy names, overrides STRATEGIES")
	trials       = flag.Int("trials", 0, "trials per rounding strategy, overrides TRIALS")
	workers      = flag.Int("workers", 0, "concurrent trials per strategy, overrides WORKERS")
	seed         = flag.Uint64("seed", 0, "random seed, overrides SEED")
	labelsPath   = flag.String("labels", "", "write the best labelling as \"id label\" lines to this file")
)

func main() {
	flag.Parse()
	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "usage: multiwaycut -graph path [-solution path] [-strategies a,b] [-trials n] [-seed s] [-labels out]")
		fmt.Fprintln(os.Stderr, "strategies:", strings.Join(engine.StrategyNames(), ", "))
		os.Exit(2)
	}

	if err := util.ReadConfig(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, "no config file, using defaults:", err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := util.LoadSolverConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if *trials > 0 {
		cfg.Trials = *trials
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *strategies != "" {
		cfg.Strategies = strings.Split(*strategies, ",")
	}

	instance, err := graphparser.ParseFile(*graphPath)
	if err != nil {
		logger.Fatal("failed to read graph", zap.String("path", *graphPath), zap.Error(err))
	}
	net, err := instance.Network()
	if err != nil {
		logger.Fatal("invalid graph", zap.String("path", *graphPath), zap.Error(err))
	}
	logger.Info("graph loaded", zap.Int("vertices", net.NumberOfVertices()),
		zap.Int("edges", net.NumberOfOriginals()), zap.Int("terminals", net.GetK()))

	var solver lp.FractionalSolver
	if *solutionPath != "" {
		solver = lp.NewFileSolver(*solutionPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := engine.NewEngine(net, solver, cfg, logger).Run(ctx, cfg.Strategies)
	if err != nil {
		logger.Fatal("multiway cut failed", zap.Error(err))
	}

	for _, s := range report.Summaries {
		if !s.Succeeded() {
			fmt.Printf("%-32s failed (%d/%d trials): %s\n", s.Strategy, s.Failures, s.Trials, s.FirstErr)
			continue
		}
		fmt.Printf("%-32s best %d mean %.2f (%d trials, %d failed)\n", s.Strategy, s.BestCost, s.MeanCost,
			s.Trials, s.Failures)
	}
	if report.FractionalObjective != nil {
		fmt.Printf("fractional objective %.4f, %d subdivision vertices\n", *report.FractionalObjective,
			report.SubdividedVertices)
	}
	if report.Optimum != nil {
		fmt.Printf("optimum %d\n", *report.Optimum)
	}
	if report.BestCost < 0 {
		fmt.Println("no strategy produced a cut")
		os.Exit(1)
	}
	fmt.Printf("best %s with cost %d\n", report.BestStrategy, report.BestCost)

	if *labelsPath != "" {
		f, err := os.Create(*labelsPath)
		if err != nil {
			logger.Fatal("failed to create labels file", zap.Error(err))
		}
		defer f.Close()
		best := report.Summary(report.BestStrategy).Best
		if err := graphparser.WriteLabels(f, net, best.GetPartition()); err != nil {
			logger.Fatal("failed to write labels", zap.Error(err))
		}
	}
}
