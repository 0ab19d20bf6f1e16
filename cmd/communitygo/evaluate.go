package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/quality"
	"github.com/gilchrisn/communitygo/pkg/cluster"
)

func newEvaluateCmd(f *sharedFlags) *cobra.Command {
	var membershipPath string
	var strict bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an externally supplied membership under a quality objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(f, membershipPath, strict)
		},
	}
	cmd.Flags().StringVar(&membershipPath, "membership", "", "path to a node,community CSV or {node: community} JSON file (required)")
	cmd.Flags().BoolVar(&strict, "strict", true, "fail with exit code 3 if any node is missing from --membership")
	return cmd
}

func runEvaluate(f *sharedFlags, membershipPath string, strict bool) error {
	if membershipPath == "" {
		return newExitError(1, "evaluate requires --membership")
	}

	data, err := readInputBytes(f)
	if err != nil {
		return newExitError(1, "read input: %v", err)
	}
	g, err := buildGraph(f, data)
	if err != nil {
		return err
	}

	byStringID, err := readMembershipFile(membershipPath)
	if err != nil {
		return newExitError(1, "read membership: %v", err)
	}
	membership := make(map[interface{}]int, g.N)
	for i := 0; i < g.N; i++ {
		id := g.IDAt(i)
		if c, ok := byStringID[fmt.Sprintf("%v", id)]; ok {
			membership[id] = c
		}
	}

	cfg := buildConfig(f)
	opts, err := cfg.ToLouvainOptions()
	if err != nil {
		return newExitError(1, "resolve options: %v", err)
	}

	q, err := cluster.EvaluateQuality(g, membership, quality.EvaluateOptions{
		Kind:     opts.Kind,
		Directed: opts.Directed,
		Gamma:    opts.Resolution,
		CPMMode:  opts.CPMMode,
		Strict:   strict,
	})
	if err != nil {
		if _, ok := err.(*cgerrors.MissingMembership); ok {
			return newExitError(3, "%v", err)
		}
		return newExitError(1, "evaluate quality: %v", err)
	}

	return writeOutputBytes(f, []byte(fmt.Sprintf("%.10g\n", q)))
}

// readMembershipFile loads a node->community map keyed by the node id's
// string form, from a two-column CSV (node,community) or a
// {node: community} JSON object, chosen by file extension. String keying
// lets the CLI match membership entries against graph node ids regardless
// of whether the graph's ids are DOT strings or JSON numbers. Community
// labels may themselves be non-numeric; communityLabelToID resolves those
// per spec §9's "non-numeric strings are deterministically hashed".
func readMembershipFile(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("malformed membership JSON: %w", err)
		}
		out := make(map[string]int, len(raw))
		for node, v := range raw {
			var n int
			if err := json.Unmarshal(v, &n); err == nil {
				out[node] = n
				continue
			}
			var label string
			if err := json.Unmarshal(v, &label); err != nil {
				return nil, fmt.Errorf("malformed membership value for node %q: %w", node, err)
			}
			out[node] = communityLabelToID(label)
		}
		return out, nil
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed membership CSV: %w", err)
	}
	out := make(map[string]int, len(records))
	for i, row := range records {
		if i == 0 && len(row) >= 2 && strings.EqualFold(row[0], "node") {
			continue
		}
		if len(row) < 2 {
			continue
		}
		out[row[0]] = communityLabelToID(strings.TrimSpace(row[1]))
	}
	return out, nil
}

// communityLabelToID resolves a membership file's raw community label to
// an int: numeric labels parse directly, non-numeric ones are hashed via
// FNV-1a, 32-bit (spec §9's "deterministic" requirement, so the same label
// always maps to the same id across runs and across CSV/JSON input).
func communityLabelToID(label string) int {
	if n, err := strconv.Atoi(label); err == nil {
		return n
	}
	h := fnv.New32a()
	h.Write([]byte(label))
	return int(int32(h.Sum32()))
}
