package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("cors.max_age must be >= 0 (got %d)", c.CORS.MaxAge)
	}

	if c.RateLimit.SearchPerMinute < 0 {
		return fmt.Errorf("rate_limit.search_per_minute must be >= 0 (got %d)", c.RateLimit.SearchPerMinute)
	}
	if c.RateLimit.SearchPerMinute > 0 && c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 when the limit is enabled")
	}

	return nil
}

func (s *SearchConfig) validate() error {
	if s.MaxDistance < 0 {
		return fmt.Errorf("max_distance must be >= 0 (got %d)", s.MaxDistance)
	}
	if s.AssembleWorkers <= 0 {
		return fmt.Errorf("assemble_workers must be > 0 (got %d)", s.AssembleWorkers)
	}
	if s.MaxQueryLength <= 0 {
		return fmt.Errorf("max_query_length must be > 0 (got %d)", s.MaxQueryLength)
	}

	s.TermMode = strings.ToLower(strings.TrimSpace(s.TermMode))
	switch s.TermMode {
	case TermModeFuzzy, TermModeSubstring:
	default:
		return fmt.Errorf("term_mode must be %q or %q (got %q)", TermModeFuzzy, TermModeSubstring, s.TermMode)
	}

	return nil
}
