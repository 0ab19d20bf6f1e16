package config

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/communitygo/internal/louvain"
	"github.com/gilchrisn/communitygo/internal/quality"
)

func TestNewAppliesOptionsTableDefaults(t *testing.T) {
	c := New()
	opts, err := c.ToLouvainOptions()
	if err != nil {
		t.Fatalf("ToLouvainOptions: %v", err)
	}
	want := louvain.DefaultOptions()
	if opts.Kind != want.Kind || opts.Resolution != want.Resolution || opts.Directed != want.Directed ||
		opts.RandomSeed != want.RandomSeed || opts.CandidateStrategy != want.CandidateStrategy ||
		opts.MaxLevels != want.MaxLevels || opts.MaxLocalPasses != want.MaxLocalPasses {
		t.Fatalf("defaults diverge from louvain.DefaultOptions: got %+v want %+v", opts, want)
	}
}

func TestToLouvainOptionsResolvesEnums(t *testing.T) {
	c := New()
	c.Set("quality", "cpm")
	c.Set("candidate_strategy", "random-neighbor")
	c.Set("cpm_mode", "size-aware")
	c.Set("preserve_labels", "true")

	opts, err := c.ToLouvainOptions()
	if err != nil {
		t.Fatalf("ToLouvainOptions: %v", err)
	}
	if opts.Kind != quality.CPM {
		t.Fatalf("expected CPM kind, got %v", opts.Kind)
	}
	if opts.CandidateStrategy != louvain.StrategyRandomNeighbor {
		t.Fatalf("expected random-neighbor strategy, got %v", opts.CandidateStrategy)
	}
	if opts.CPMMode != quality.CPMSizeAware {
		t.Fatalf("expected size-aware CPM mode, got %v", opts.CPMMode)
	}
	if opts.PreserveLabels != louvain.PreserveKeepOldOrder {
		t.Fatalf("expected keep-old-order preserve policy, got %v", opts.PreserveLabels)
	}
}

func TestToLouvainOptionsRejectsUnknownValues(t *testing.T) {
	c := New()
	c.Set("quality", "not-a-real-objective")
	if _, err := c.ToLouvainOptions(); err == nil {
		t.Fatal("expected an UnknownOption error for an unrecognized quality value")
	}
}

func TestSetFixedNodesRoundTrips(t *testing.T) {
	c := New()
	c.SetFixedNodes([]interface{}{"a", "b"})
	ids := c.FixedNodeIDs()
	if !ids["a"] || !ids["b"] {
		t.Fatalf("expected a and b marked fixed, got %+v", ids)
	}
	if ids["c"] {
		t.Fatal("node c was never marked fixed")
	}
}

func TestLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	c := New()
	c.Set("log_level", "not-a-level")
	logger := c.Logger() // must not panic
	if got := logger.GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("expected fallback level %v, got %v", zerolog.InfoLevel, got)
	}
}
