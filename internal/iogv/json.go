package iogv

import (
	"encoding/json"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/graphadapter"
)

// JSONNode is one node record in the {nodes, links} JSON input shape.
type JSONNode struct {
	ID   interface{} `json:"id"`
	Size int         `json:"size,omitempty"`
}

// JSONLink is one edge record, shared by both JSON input shapes spec.md
// §6 names: a bare array of links, or an {nodes, links} document.
type JSONLink struct {
	Source interface{} `json:"source"`
	Target interface{} `json:"target"`
	Weight float64     `json:"weight,omitempty"`
}

// JSONGraph is the {nodes, links} JSON input shape.
type JSONGraph struct {
	Directed bool       `json:"directed"`
	Nodes    []JSONNode `json:"nodes"`
	Links    []JSONLink `json:"links"`
}

// ReadJSON parses a JSON graph document into a Builder-ready graph. Two
// shapes are accepted (spec.md §6): a bare array of {source,target,weight?}
// links with nodes implied by their endpoints, or an {nodes, links} object
// with explicit node records (and optional sizes).
func ReadJSON(data []byte) (*graphadapter.Graph, error) {
	trimmed := data
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t' || trimmed[0] == '\n' || trimmed[0] == '\r') {
		trimmed = trimmed[1:]
	}

	directed := false
	var links []JSONLink
	b := graphadapter.NewBuilder(false)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(data, &links); err != nil {
			return nil, cgerrors.NewInputError("malformed JSON link array: %v", err)
		}
	} else {
		var doc JSONGraph
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, cgerrors.NewInputError("malformed JSON graph: %v", err)
		}
		directed = doc.Directed
		links = doc.Links
		b = graphadapter.NewBuilder(directed)
		for _, n := range doc.Nodes {
			size := n.Size
			if size == 0 {
				size = 1
			}
			b.AddNode(n.ID, size)
		}
	}

	for _, l := range links {
		w := l.Weight
		if w == 0 {
			w = 1
		}
		b.AddEdge(l.Source, l.Target, w)
	}
	return b.Build()
}

// ClustersJSON is the public facade's toJSON() output shape (spec.md §6:
// "toJSON() → {membership, meta:{levels, quality, options}}").
type ClustersJSON struct {
	Membership map[string]interface{} `json:"membership"`
	Meta       ClustersMeta            `json:"meta"`
}

// ClustersMeta is the "meta" sub-object of ClustersJSON.
type ClustersMeta struct {
	Levels  int                    `json:"levels"`
	Quality float64                `json:"quality"`
	Options map[string]interface{} `json:"options"`
}

// WriteClustersJSON marshals a ClustersJSON document with stable key
// ordering (encoding/json sorts map keys on marshal already).
func WriteClustersJSON(doc ClustersJSON) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
