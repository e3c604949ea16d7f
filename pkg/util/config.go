package util

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ablochha/multiwaycut/pkg"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid solver configuration")

// ReadConfig loads config.yaml from dir (./data/ when empty). Environment variables override file keys.
func ReadConfig(dir string) error {
	if dir == "" {
		dir = "./data/"
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

type SolverConfig struct {
	Trials          int
	Workers         int
	Seed            uint64
	ThresholdBound  float64
	Mixture3        []float64
	Mixture4        []float64
	Strategies      []string
	LocalSearchInit string
}

func setSolverDefaults() {
	viper.SetDefault("TRIALS", pkg.DEFAULT_TRIALS)
	viper.SetDefault("WORKERS", pkg.DEFAULT_WORKERS)
	viper.SetDefault("SEED", 0)
	viper.SetDefault("THRESHOLD_BOUND", pkg.DEFAULT_THRESHOLD_BOUND)
	viper.SetDefault("MIXTURE3", pkg.DEFAULT_MIXTURE3)
	viper.SetDefault("MIXTURE4", pkg.DEFAULT_MIXTURE4)
	viper.SetDefault("STRATEGIES", []string{"isolation", "exponential-clocks", "local-search"})
	viper.SetDefault("LOCAL_SEARCH_INIT", pkg.DEFAULT_LOCAL_SEARCH)
}

// LoadSolverConfig reads the solver keys from viper, falling back to defaults for missing keys.
func LoadSolverConfig() (SolverConfig, error) {
	setSolverDefaults()

	cfg := SolverConfig{
		Trials:          viper.GetInt("TRIALS"),
		Workers:         viper.GetInt("WORKERS"),
		Seed:            viper.GetUint64("SEED"),
		ThresholdBound:  viper.GetFloat64("THRESHOLD_BOUND"),
		Mixture3:        getFloat64Slice("MIXTURE3"),
		Mixture4:        getFloat64Slice("MIXTURE4"),
		Strategies:      viper.GetStringSlice("STRATEGIES"),
		LocalSearchInit: strings.ToLower(viper.GetString("LOCAL_SEARCH_INIT")),
	}
	if err := cfg.Validate(); err != nil {
		return SolverConfig{}, err
	}
	return cfg, nil
}

// DefaultSolverConfig returns the built-in defaults without touching viper.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Trials:          pkg.DEFAULT_TRIALS,
		Workers:         pkg.DEFAULT_WORKERS,
		ThresholdBound:  pkg.DEFAULT_THRESHOLD_BOUND,
		Mixture3:        append([]float64(nil), pkg.DEFAULT_MIXTURE3...),
		Mixture4:        append([]float64(nil), pkg.DEFAULT_MIXTURE4...),
		Strategies:      []string{"isolation", "exponential-clocks", "local-search"},
		LocalSearchInit: pkg.DEFAULT_LOCAL_SEARCH,
	}
}

func (c SolverConfig) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("%w: TRIALS must be positive, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: WORKERS must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ThresholdBound <= 0 || c.ThresholdBound > 1 {
		return fmt.Errorf("%w: THRESHOLD_BOUND must be in (0, 1], got %g", ErrInvalidConfig, c.ThresholdBound)
	}
	if err := validateProbabilities("MIXTURE3", c.Mixture3, 3); err != nil {
		return err
	}
	if err := validateProbabilities("MIXTURE4", c.Mixture4, 4); err != nil {
		return err
	}
	return nil
}

func validateProbabilities(key string, p []float64, n int) error {
	if len(p) != n {
		return fmt.Errorf("%w: %s needs %d probabilities, got %d", ErrInvalidConfig, key, n, len(p))
	}
	if Min(p...) < 0 {
		return fmt.Errorf("%w: %s has a negative probability", ErrInvalidConfig, key)
	}
	if math.Abs(Sum(p...)-1) > pkg.EPSILON {
		return fmt.Errorf("%w: %s probabilities sum to %g", ErrInvalidConfig, key, Sum(p...))
	}
	return nil
}

// getFloat64Slice accepts both yaml lists and comma separated env values.
func getFloat64Slice(key string) []float64 {
	raw := viper.Get(key)
	switch v := raw.(type) {
	case []float64:
		return append([]float64(nil), v...)
	case []interface{}:
		out := make([]float64, 0, len(v))
		for _, x := range v {
			switch n := x.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			case string:
				f, err := StringToFloat64(strings.TrimSpace(n))
				if err != nil {
					return nil
				}
				out = append(out, f)
			}
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := StringToFloat64(strings.TrimSpace(p))
			if err != nil {
				return nil
			}
			out = append(out, f)
		}
		return out
	}
	return nil
}
