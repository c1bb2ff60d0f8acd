package server

import (
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// UpdateMessage is pushed to WebSocket clients whenever a graph mutates.
// Clients re-fetch the named graph on receipt.
type UpdateMessage struct {
	Type      string `json:"type"`
	GraphID   string `json:"graph_id"`
	Timestamp int64  `json:"timestamp"`
}

type createGraphRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"graph_type,omitempty"`
	Directed *bool  `json:"directed,omitempty"`
}

// graphPatch carries a partial graph settings update. Nil fields are left
// untouched; node and edge lists are never modified through this path.
type graphPatch struct {
	Name              *string    `json:"name,omitempty"`
	Type              *string    `json:"graph_type,omitempty"`
	Directed          *bool      `json:"directed,omitempty"`
	BackgroundColor   *graph.RGB `json:"background_color,omitempty"`
	GridVisible       *bool      `json:"grid_visible,omitempty"`
	GridSize          *int       `json:"grid_size,omitempty"`
	GridColor         *graph.RGB `json:"grid_color,omitempty"`
	GridLineThickness *float64   `json:"grid_line_thickness,omitempty"`
}

type createNodeRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

type nodePatch struct {
	X        *float64       `json:"x,omitempty"`
	Y        *float64       `json:"y,omitempty"`
	Text     *string        `json:"text,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type createEdgeRequest struct {
	SourceID  string   `json:"source_id,omitempty"`
	TargetID  string   `json:"target_id,omitempty"`
	SourceIDs []string `json:"source_ids,omitempty"`
	TargetIDs []string `json:"target_ids,omitempty"`
	Text      string   `json:"text,omitempty"`
}

type positionPatchRequest struct {
	Positions []graph.NodePosition `json:"positions"`
}

type positionPatchResponse struct {
	Updated []string `json:"updated"`
}
