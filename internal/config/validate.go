package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.ConfidenceThreshold < 0 || c.Enrichment.ConfidenceThreshold > 1 {
		return errors.New("enrichment.confidence_threshold must be between 0 and 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"enrichment.workers":              c.Enrichment.Workers,
		"enrichment.queue_poll_interval":  c.Enrichment.QueuePollInterval,
		"enrichment.error_retry_interval": c.Enrichment.ErrorRetryInterval,
		"enrichment.cache_ttl_seconds":    c.Enrichment.CacheTTLSeconds,
		"enrichment.cache_capacity":       c.Enrichment.CacheCapacity,
		"llm.timeout_seconds":             c.LLM.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be greater than zero", name)
		}
	}
	return nil
}
