package graph

import (
	"strings"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
)

// Type classifies a graph's structural discipline. The interaction layer
// only consults it to decide which affordances exist (hyperedge handles,
// edge-to-edge membership); it never enforces cycle or shape rules.
type Type string

const (
	TypeList       Type = "list"
	TypeTree       Type = "tree"
	TypeDAG        Type = "dag"
	TypeGraph      Type = "graph"
	TypeMultigraph Type = "multigraph"
	TypeHypergraph Type = "hypergraph"
	TypeUbergraph  Type = "ubergraph"
)

// Types lists every valid graph type, in display order.
var Types = []Type{TypeList, TypeTree, TypeDAG, TypeGraph, TypeMultigraph, TypeHypergraph, TypeUbergraph}

// NormalizeType lowercases and validates a graph type string. Empty input
// defaults to the plain graph type.
func NormalizeType(value string) (Type, error) {
	if value == "" {
		return TypeGraph, nil
	}
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range Types {
		if normalized == t {
			return t, nil
		}
	}
	return "", errors.Newf("invalid graph type %q", value)
}

// AllowsHyperMembers reports whether edges of this graph type may carry
// more than one tail/head member.
func (t Type) AllowsHyperMembers() bool {
	return t == TypeHypergraph || t == TypeUbergraph
}

// AllowsEdgeMembers reports whether edge members may themselves be edges
// (edges pointing at edges).
func (t Type) AllowsEdgeMembers() bool {
	return t == TypeUbergraph
}
