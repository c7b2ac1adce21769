// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputFormat selects the persistence format for harvested papers.
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
)

// HarvestConfig holds settings for the fetch and harvest stages.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv API query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Count is the number of papers to collect (default 200).
	Count int `json:"count" yaml:"count" mapstructure:"count"`

	// BatchDelay is the pause between consecutive API calls (default 3s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay" mapstructure:"batch_delay"`
}

// OutputConfig holds settings for writing harvested papers.
type OutputConfig struct {
	// Dir is the directory the timestamped output file is created in.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Format selects json, yaml, or sqlite.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// MetricsFile, when set, receives a Prometheus text exposition of the run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

// PageConfig holds settings for the single-page text extraction path.
type PageConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Pretty selects human-readable console output instead of JSON lines.
	Pretty bool `json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// Config groups all stage configurations.
type Config struct {
	Harvest HarvestConfig `json:"harvest" yaml:"harvest" mapstructure:"harvest"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Page    PageConfig    `json:"page" yaml:"page" mapstructure:"page"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

const (
	DefaultBaseURL   = "https://export.arxiv.org/api/query"
	DefaultUserAgent = "arxiv-harvest/0.1"
	DefaultCount     = 200
	DefaultDelay     = 3 * time.Second
	DefaultPageWait  = 10 * time.Second
)

// DefaultConfig returns the configuration used when no file, env, or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Harvest: HarvestConfig{
			HTTPConfig: HTTPConfig{UserAgent: DefaultUserAgent},
			BaseURL:    DefaultBaseURL,
			Count:      DefaultCount,
			BatchDelay: DefaultDelay,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: FormatJSON,
		},
		Page: PageConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultPageWait,
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}
