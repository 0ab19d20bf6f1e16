package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/iogv"
)

// readInputBytes reads --in, or stdin when --in is empty.
func readInputBytes(f *sharedFlags) ([]byte, error) {
	if f.in == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(f.in)
}

// resolveFormat honors an explicit --format override, otherwise
// auto-detects by extension then content sniff (spec.md §6).
func resolveFormat(f *sharedFlags, data []byte) (iogv.Format, error) {
	switch f.format {
	case "dot":
		return iogv.FormatDOT, nil
	case "json":
		return iogv.FormatJSON, nil
	case "":
		detected, err := iogv.DetectFormat(f.in, data)
		if err != nil {
			return iogv.FormatUnknown, newExitError(2, "%v", err)
		}
		return detected, nil
	default:
		return iogv.FormatUnknown, newExitError(2, "unknown input format %q", f.format)
	}
}

// buildGraph parses input bytes under the detected/overridden format into
// a graph, failing with exit code 2 for an unrecognized format.
func buildGraph(f *sharedFlags, data []byte) (*graphadapter.Graph, error) {
	format, err := resolveFormat(f, data)
	if err != nil {
		return nil, err
	}
	switch format {
	case iogv.FormatDOT:
		return iogv.ReadDOT(data, f.directed)
	case iogv.FormatJSON:
		return iogv.ReadJSON(data)
	default:
		return nil, newExitError(2, "unknown input format")
	}
}

// writeOutputBytes writes to --out, or stdout when --out is empty.
func writeOutputBytes(f *sharedFlags, data []byte) error {
	if f.out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(f.out, data, 0o644)
}

// writeResult renders a Clusters-shaped membership to --out-format,
// failing with exit code 4 for an unrecognized output format and exit
// code 5 when DOT output cannot be produced.
func writeResult(f *sharedFlags, g *graphadapter.Graph, membership []int, meta iogv.ClustersMeta) error {
	switch f.outFmt {
	case "json":
		return writeJSONResult(f, g, membership, meta)
	case "csv":
		nodeIDs := make([]interface{}, g.N)
		for i := 0; i < g.N; i++ {
			nodeIDs[i] = g.IDAt(i)
		}
		out, err := iogv.WriteCSV(nodeIDs, membership)
		if err != nil {
			return newExitError(1, "write CSV: %v", err)
		}
		return writeOutputBytes(f, out)
	case "dot":
		memberMap := make(map[int]int, g.N)
		for i, c := range membership {
			memberMap[i] = c
		}
		out, err := iogv.WriteDOT(g, memberMap)
		if err != nil {
			return newExitError(5, "DOT output unavailable: %v", err)
		}
		return writeOutputBytes(f, out)
	default:
		return newExitError(4, "unknown output format %q", f.outFmt)
	}
}

func writeJSONResult(f *sharedFlags, g *graphadapter.Graph, membership []int, meta iogv.ClustersMeta) error {
	members := make(map[string]interface{}, g.N)
	for i, c := range membership {
		members[fmt.Sprintf("%v", g.IDAt(i))] = c
	}
	if f.membOnly {
		out, err := iogv.WriteClustersJSON(iogv.ClustersJSON{Membership: members})
		if err != nil {
			return newExitError(1, "marshal membership JSON: %v", err)
		}
		return writeOutputBytes(f, out)
	}
	doc := iogv.ClustersJSON{Membership: members, Meta: meta}
	out, err := iogv.WriteClustersJSON(doc)
	if err != nil {
		return newExitError(1, "marshal result JSON: %v", err)
	}
	return writeOutputBytes(f, out)
}
