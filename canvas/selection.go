package canvas

import (
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// EdgeScope is the extent of an edge selection: the mainline source↔target
// pairing, or the whole hyperedge structure including all members.
type EdgeScope string

const (
	ScopeNone     EdgeScope = "none"
	ScopeMainline EdgeScope = "mainline"
	ScopeWhole    EdgeScope = "whole"
)

// MemberRef identifies one hyperedge member connector segment.
type MemberRef struct {
	EdgeID   string     `json:"edge_id"`
	Role     graph.Role `json:"role"`
	MemberID string     `json:"member_id"`
}

// Selection tracks the current selection: at most one of node or edge, plus
// an independently selectable hyperedge member segment.
type Selection struct {
	NodeID    string     `json:"node_id,omitempty"`
	EdgeID    string     `json:"edge_id,omitempty"`
	EdgeScope EdgeScope  `json:"edge_scope"`
	Member    *MemberRef `json:"member,omitempty"`
}

// SelectNode selects a node, clearing any edge and member selection.
func (s *Selection) SelectNode(id string) {
	s.NodeID = id
	s.EdgeID = ""
	s.EdgeScope = ScopeNone
	s.Member = nil
}

// SelectEdge selects an edge with the given scope, clearing node selection.
func (s *Selection) SelectEdge(id string, scope EdgeScope) {
	s.EdgeID = id
	s.EdgeScope = scope
	s.NodeID = ""
	s.Member = nil
}

// SelectMember selects a hyperedge member segment. The owning edge stays
// selected alongside it; node selection is cleared.
func (s *Selection) SelectMember(ref MemberRef) {
	s.Member = &ref
	s.NodeID = ""
	if s.EdgeID != ref.EdgeID {
		s.EdgeID = ref.EdgeID
		s.EdgeScope = ScopeWhole
	}
}

// Clear resets the selection entirely.
func (s *Selection) Clear() {
	*s = Selection{EdgeScope: ScopeNone}
}

// DropIf removes any selection referencing the given node or edge id, such
// as after a deletion.
func (s *Selection) DropIf(id string) {
	if s.NodeID == id {
		s.NodeID = ""
	}
	if s.EdgeID == id {
		s.EdgeID = ""
		s.EdgeScope = ScopeNone
	}
	if s.Member != nil && (s.Member.EdgeID == id || s.Member.MemberID == id) {
		s.Member = nil
	}
}
