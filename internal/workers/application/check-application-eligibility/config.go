package checkapplicationeligibility

import (
	"fmt"
	"time"

	"talent-workers/internal/eligibility"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinCompletion int           `mapstructure:"min_completion"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		MinCompletion: eligibility.DefaultMinCompletion,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MinCompletion < 0 || c.MinCompletion > 100 {
		return fmt.Errorf("min_completion must be within 0..100")
	}
	return nil
}
