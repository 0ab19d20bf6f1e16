// Package config wraps spec.md §6's Options table in a viper-backed
// configuration layer, grounded on
// graph-clustering-algorithm/pkg/louvain/config.go's Config type: a
// *viper.Viper with SetDefault calls and typed getters, plus a
// CreateLogger method building a zerolog.Logger from the same source.
package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/louvain"
	"github.com/gilchrisn/communitygo/internal/quality"
)

// Config manages engine configuration using Viper, merging flag, env var
// (COMMUNITYGO_*), and config-file sources by viper's normal precedence.
type Config struct {
	v *viper.Viper

	fixedNodes        map[interface{}]bool
	preserveLabelsMap map[int]int
}

// New creates a Config with spec.md §6's Options table defaults.
func New() *Config {
	v := viper.New()

	v.SetDefault("quality", "modularity")
	v.SetDefault("resolution", 1.0)
	v.SetDefault("directed", false)
	v.SetDefault("random_seed", int64(42))
	v.SetDefault("candidate_strategy", "neighbors")
	v.SetDefault("allow_new_community", false)
	v.SetDefault("max_community_size", 0)
	v.SetDefault("refine", true)
	v.SetDefault("preserve_labels", "false")
	v.SetDefault("cpm_mode", "unit")
	v.SetDefault("max_levels", 50)
	v.SetDefault("max_local_passes", 20)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("COMMUNITYGO")
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile merges a config file (TOML/YAML/JSON, by extension) into
// the current settings.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Set overrides a single key, used by the CLI to bind flags.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

// SetFixedNodes installs the immobile-node set (spec.md §6's fixedNodes
// option); keys are raw input node ids, resolved against the graph's
// dense index by the caller before being handed to the local-move loop.
func (c *Config) SetFixedNodes(ids []interface{}) {
	c.fixedNodes = make(map[interface{}]bool, len(ids))
	for _, id := range ids {
		c.fixedNodes[id] = true
	}
}

// FixedNodeIDs returns the raw ids marked immobile.
func (c *Config) FixedNodeIDs() map[interface{}]bool { return c.fixedNodes }

// SetPreserveLabelsMap installs the old-id -> rank map used when
// PreserveLabels resolves to PreserveMap.
func (c *Config) SetPreserveLabelsMap(m map[int]int) { c.preserveLabelsMap = m }

func (c *Config) Quality() string           { return c.v.GetString("quality") }
func (c *Config) Resolution() float64       { return c.v.GetFloat64("resolution") }
func (c *Config) Directed() bool            { return c.v.GetBool("directed") }
func (c *Config) RandomSeed() int64         { return c.v.GetInt64("random_seed") }
func (c *Config) CandidateStrategy() string { return c.v.GetString("candidate_strategy") }
func (c *Config) AllowNewCommunity() bool   { return c.v.GetBool("allow_new_community") }
func (c *Config) MaxCommunitySize() int     { return c.v.GetInt("max_community_size") }
func (c *Config) Refine() bool              { return c.v.GetBool("refine") }
func (c *Config) PreserveLabels() string    { return c.v.GetString("preserve_labels") }
func (c *Config) CPMMode() string           { return c.v.GetString("cpm_mode") }
func (c *Config) MaxLevels() int            { return c.v.GetInt("max_levels") }
func (c *Config) MaxLocalPasses() int       { return c.v.GetInt("max_local_passes") }
func (c *Config) LogLevel() string          { return c.v.GetString("log_level") }

// ToLouvainOptions resolves the viper-backed settings into
// louvain.Options, rejecting unrecognized enum values per spec.md §7.
func (c *Config) ToLouvainOptions() (louvain.Options, error) {
	opts := louvain.DefaultOptions()

	switch c.Quality() {
	case "modularity":
		opts.Kind = quality.Modularity
	case "cpm":
		opts.Kind = quality.CPM
	default:
		return opts, &cgerrors.UnknownOption{Option: "quality", Value: c.Quality()}
	}

	switch c.CandidateStrategy() {
	case "neighbors":
		opts.CandidateStrategy = louvain.StrategyNeighbors
	case "all":
		opts.CandidateStrategy = louvain.StrategyAll
	case "random":
		opts.CandidateStrategy = louvain.StrategyRandomAny
	case "random-neighbor":
		opts.CandidateStrategy = louvain.StrategyRandomNeighbor
	default:
		return opts, &cgerrors.UnknownOption{Option: "candidateStrategy", Value: c.CandidateStrategy()}
	}

	switch c.CPMMode() {
	case "unit":
		opts.CPMMode = quality.CPMUnit
	case "size-aware":
		opts.CPMMode = quality.CPMSizeAware
	default:
		return opts, &cgerrors.UnknownOption{Option: "cpmMode", Value: c.CPMMode()}
	}

	switch c.PreserveLabels() {
	case "false", "":
		opts.PreserveLabels = louvain.PreserveDefault
	case "true":
		opts.PreserveLabels = louvain.PreserveKeepOldOrder
	case "map":
		opts.PreserveLabels = louvain.PreserveMap
		opts.PreserveLabelsMap = c.preserveLabelsMap
	default:
		return opts, &cgerrors.UnknownOption{Option: "preserveLabels", Value: c.PreserveLabels()}
	}

	opts.Resolution = c.Resolution()
	opts.Directed = c.Directed()
	opts.RandomSeed = c.RandomSeed()
	opts.AllowNewCommunity = c.AllowNewCommunity()
	opts.MaxCommunitySize = c.MaxCommunitySize()
	opts.Refine = c.Refine()
	opts.MaxLevels = c.MaxLevels()
	opts.MaxLocalPasses = c.MaxLocalPasses()
	return opts, nil
}

// Logger builds a zerolog.Logger the way the teacher's CreateLogger does:
// console-formatted, level from config, tagged with a component field.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Str("component", "communitygo").Logger()
}
