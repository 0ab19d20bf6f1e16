package iogv

import (
	"strings"
	"testing"
)

func TestReadDOTParsesWeightAndSize(t *testing.T) {
	src := []byte(`graph G {
		a [size="2"];
		b;
		a -- b [weight="3.5"];
	}`)
	g, err := ReadDOT(src, false)
	if err != nil {
		t.Fatalf("ReadDOT: %v", err)
	}
	ai, ok := g.IndexOf("a")
	if !ok {
		t.Fatal("expected node a")
	}
	if g.Size[ai] != 2 {
		t.Fatalf("expected size 2, got %d", g.Size[ai])
	}
	bi, _ := g.IndexOf("b")
	var w float64
	for _, nb := range g.Out[ai] {
		if nb.To == bi {
			w = nb.W
		}
	}
	if w != 3.5 {
		t.Fatalf("expected edge weight 3.5, got %v", w)
	}
}

func TestWriteDOTThenReadDOTRoundTripsTopology(t *testing.T) {
	src := []byte(`graph G { a -- b [weight="2"]; b -- c [weight="1"]; }`)
	g, err := ReadDOT(src, false)
	if err != nil {
		t.Fatalf("ReadDOT: %v", err)
	}
	membership := map[int]int{}
	for i := 0; i < g.N; i++ {
		membership[i] = i % 2
	}
	out, err := WriteDOT(g, membership)
	if err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	if !strings.Contains(string(out), "community") {
		t.Fatalf("expected a community attribute in DOT output, got:\n%s", out)
	}

	g2, err := ReadDOT(out, false)
	if err != nil {
		t.Fatalf("re-reading written DOT: %v", err)
	}
	if g2.N != g.N {
		t.Fatalf("expected %d nodes after round trip, got %d", g.N, g2.N)
	}
}

func TestReadJSONBareLinkArray(t *testing.T) {
	src := []byte(`[{"source":"a","target":"b","weight":2.5},{"source":"b","target":"c"}]`)
	g, err := ReadJSON(src)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.N != 3 {
		t.Fatalf("expected 3 nodes implied by links, got %d", g.N)
	}
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")
	var w float64
	for _, nb := range g.Out[ai] {
		if nb.To == bi {
			w = nb.W
		}
	}
	if w != 2.5 {
		t.Fatalf("expected weight 2.5, got %v", w)
	}
}

func TestReadJSONNodesAndLinksShape(t *testing.T) {
	src := []byte(`{"directed":true,"nodes":[{"id":"a","size":3},{"id":"b"}],"links":[{"source":"a","target":"b"}]}`)
	g, err := ReadJSON(src)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !g.Directed {
		t.Fatal("expected directed graph")
	}
	ai, _ := g.IndexOf("a")
	if g.Size[ai] != 3 {
		t.Fatalf("expected node a size 3, got %d", g.Size[ai])
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	cases := map[string]Format{
		"graph.dot":  FormatDOT,
		"graph.gv":   FormatDOT,
		"graph.json": FormatJSON,
		"graph.csv":  FormatCSV,
	}
	for path, want := range cases {
		got, err := DetectFormat(path, nil)
		if err != nil {
			t.Fatalf("DetectFormat(%s): %v", path, err)
		}
		if got != want {
			t.Fatalf("DetectFormat(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestDetectFormatSniffsContentWithoutExtension(t *testing.T) {
	jsonFmt, err := DetectFormat("", []byte(`{"nodes":[]}`))
	if err != nil || jsonFmt != FormatJSON {
		t.Fatalf("expected JSON sniff, got %v err=%v", jsonFmt, err)
	}
	dotFmt, err := DetectFormat("", []byte(`digraph G { a -> b; }`))
	if err != nil || dotFmt != FormatDOT {
		t.Fatalf("expected DOT sniff, got %v err=%v", dotFmt, err)
	}
}

func TestDetectFormatRejectsEmptyInput(t *testing.T) {
	if _, err := DetectFormat("", []byte("   ")); err == nil {
		t.Fatal("expected an error for empty/unsniffable input")
	}
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	ids := []interface{}{"a", "b"}
	out, err := WriteCSV(ids, []int{0, 1})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %v", len(lines), lines)
	}
	if lines[0] != "node,community" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestPageRankScoresAreNonNegativeAndSumToOne(t *testing.T) {
	src := []byte(`graph G { a -- b; b -- c; c -- a; }`)
	g, err := ReadDOT(src, false)
	if err != nil {
		t.Fatalf("ReadDOT: %v", err)
	}
	scores := PageRank(g, 0.85, 1e-8)
	if len(scores) != g.N {
		t.Fatalf("expected a score per node, got %d of %d", len(scores), g.N)
	}
	sum := 0.0
	for _, s := range scores {
		if s < 0 {
			t.Fatalf("pagerank score should never be negative, got %v", s)
		}
		sum += s
	}
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected pagerank scores to sum to ~1, got %v", sum)
	}
}
