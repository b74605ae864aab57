// Package config holds the encoder's tunable knobs as an explicit value
// threaded through the coordinator, instead of module-level constants:
// the match-index minimum-savings threshold and the optional finder
// endpoint are policy, not protocol, and callers must be able to vary them
// per invocation (e.g. per-environment finder URLs) without recompiling.
// MAX_LITERAL_LEN is the one protocol knob: it fixes the literal-length
// field width, so the decoder must be given the value the encoder used.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects every knob the pipeline coordinator and its stages read.
type Config struct {
	// MaxLiteralLen bounds a LITERAL token's code-point length (default
	// 250). It fixes the literal-length field width, so encoder and
	// decoder must agree on it.
	MaxLiteralLen int `yaml:"max_literal_len"`

	// MinMatchSavings is the match-index inclusion threshold: a candidate
	// reference must have length strictly greater than this to be
	// recorded (default 2). Encoder-side only; never serialized.
	MinMatchSavings int `yaml:"min_match_savings"`

	// MaxMatchCandidates caps candidates kept per payload position; 0
	// means unlimited.
	MaxMatchCandidates int `yaml:"max_match_candidates"`

	// FinderEndpoint is the optional external similarity-finder URL. Empty
	// disables the finder.
	FinderEndpoint string `yaml:"finder_endpoint"`

	// FinderLowScoreThreshold is the minimum acceptable match score;
	// matches scoring below this are treated as finder_low_score.
	FinderLowScoreThreshold float64 `yaml:"finder_low_score_threshold"`

	// FinderTimeout bounds the external finder call.
	FinderTimeout time.Duration `yaml:"finder_timeout"`
}

// Default returns the standard knob values with the finder disabled.
func Default() Config {
	return Config{
		MaxLiteralLen:           250,
		MinMatchSavings:         2,
		MaxMatchCandidates:      0,
		FinderEndpoint:          "",
		FinderLowScoreThreshold: 0,
		FinderTimeout:           5 * time.Second,
	}
}

// Load reads a YAML config file, starting from Default() so a partial file
// only overrides the fields it names.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
