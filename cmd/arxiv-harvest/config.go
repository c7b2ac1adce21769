// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// setDefaults registers every config key with v so that env variables and
// Unmarshal see them even when no config file is present.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("harvest.base_url", d.Harvest.BaseURL)
	v.SetDefault("harvest.count", d.Harvest.Count)
	v.SetDefault("harvest.batch_delay", d.Harvest.BatchDelay)
	v.SetDefault("harvest.timeout", d.Harvest.Timeout)
	v.SetDefault("harvest.user_agent", d.Harvest.UserAgent)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", string(d.Output.Format))
	v.SetDefault("output.metrics_file", d.Output.MetricsFile)

	v.SetDefault("page.timeout", d.Page.Timeout)
	v.SetDefault("page.user_agent", d.Page.UserAgent)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// loadConfig resolves the merged configuration from defaults, config file,
// environment, and bound flags.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Harvest.Count < 1 {
		return types.Config{}, fmt.Errorf("harvest.count must be at least 1, got %d", cfg.Harvest.Count)
	}
	if cfg.Harvest.BatchDelay < 0 {
		return types.Config{}, fmt.Errorf("harvest.batch_delay must not be negative")
	}
	return cfg, nil
}
