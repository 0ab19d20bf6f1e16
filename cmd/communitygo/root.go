package main

import (
	"github.com/spf13/cobra"

	"github.com/gilchrisn/communitygo/internal/config"
)

// sharedFlags mirrors spec.md §6's Options table, one flag per row, plus
// the CLI-only I/O flags (--in/--out/--format/--out-format/...).
type sharedFlags struct {
	in       string
	out      string
	format   string
	outFmt   string
	membOnly bool
	pagerank bool

	quality           string
	resolution        float64
	directed          bool
	randomSeed        int64
	candidateStrategy string
	allowNewCommunity bool
	maxCommunitySize  int
	refine            bool
	fixedNodes        string
	preserveLabels    string
	cpmMode           string
	maxLevels         int
	maxLocalPasses    int
	logLevel          string
}

func newRootCmd() *cobra.Command {
	flags := &sharedFlags{}

	root := &cobra.Command{
		Use:           "communitygo",
		Short:         "Weighted-graph community detection (Louvain/Leiden, modularity/CPM)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.in, "in", "", "input file (DOT or JSON); reads stdin if empty")
	root.PersistentFlags().StringVar(&flags.out, "out", "", "output file; writes stdout if empty")
	root.PersistentFlags().StringVar(&flags.format, "format", "", "input format override: dot|json (auto-detected otherwise)")
	root.PersistentFlags().StringVar(&flags.outFmt, "out-format", "json", "output format: json|csv|dot")
	root.PersistentFlags().BoolVar(&flags.membOnly, "membership-only", false, "emit only the membership map (JSON output)")
	root.PersistentFlags().BoolVar(&flags.pagerank, "annotate-pagerank", false, "annotate DOT output with a pagerank attribute")

	root.PersistentFlags().StringVar(&flags.quality, "quality", "modularity", "objective: modularity|cpm")
	root.PersistentFlags().Float64Var(&flags.resolution, "resolution", 1.0, "CPM resolution (gamma)")
	root.PersistentFlags().BoolVar(&flags.directed, "directed", false, "treat input as directed")
	root.PersistentFlags().Int64Var(&flags.randomSeed, "random-seed", 42, "RNG seed")
	root.PersistentFlags().StringVar(&flags.candidateStrategy, "candidate-strategy", "neighbors", "neighbors|all|random|random-neighbor")
	root.PersistentFlags().BoolVar(&flags.allowNewCommunity, "allow-new-community", false, "admit a fresh singleton community as a move target")
	root.PersistentFlags().IntVar(&flags.maxCommunitySize, "max-community-size", 0, "cap on community totalSize (0 = unbounded)")
	root.PersistentFlags().BoolVar(&flags.refine, "refine", true, "run Leiden-style refinement each level")
	root.PersistentFlags().StringVar(&flags.fixedNodes, "fixed-nodes", "", "comma-separated node ids immobile at the finest level")
	root.PersistentFlags().StringVar(&flags.preserveLabels, "preserve-labels", "false", "false|true|map")
	root.PersistentFlags().StringVar(&flags.cpmMode, "cpm-mode", "unit", "unit|size-aware")
	root.PersistentFlags().IntVar(&flags.maxLevels, "max-levels", 50, "outer-driver level cap")
	root.PersistentFlags().IntVar(&flags.maxLocalPasses, "max-local-passes", 20, "per-level local-move pass cap")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "trace|debug|info|warn|error")

	root.AddCommand(newDetectCmd(flags))
	root.AddCommand(newEvaluateCmd(flags))
	return root
}

// buildConfig resolves the bound flags into a config.Config, the same
// viper-backed settings object the library layer consumes.
func buildConfig(f *sharedFlags) *config.Config {
	c := config.New()
	c.Set("quality", f.quality)
	c.Set("resolution", f.resolution)
	c.Set("directed", f.directed)
	c.Set("random_seed", f.randomSeed)
	c.Set("candidate_strategy", f.candidateStrategy)
	c.Set("allow_new_community", f.allowNewCommunity)
	c.Set("max_community_size", f.maxCommunitySize)
	c.Set("refine", f.refine)
	c.Set("preserve_labels", f.preserveLabels)
	c.Set("cpm_mode", f.cpmMode)
	c.Set("max_levels", f.maxLevels)
	c.Set("max_local_passes", f.maxLocalPasses)
	c.Set("log_level", f.logLevel)
	return c
}
