package server

import (
	"fmt"
	"net/http"
)

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	var req createNodeRequest
	if readJSON(w, r, &req) != nil {
		return
	}
	n := g.CreateNode(req.X, req.Y, req.Text)
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// handlePatchPositions applies a bulk node position update, the commit
// path for node drags. Unknown node ids are skipped, not rejected, so a
// drag commit racing a delete does not fail the whole batch.
func (s *Server) handlePatchPositions(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	var req positionPatchRequest
	if readJSON(w, r, &req) != nil {
		return
	}
	if len(req.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "No positions supplied")
		return
	}
	updated := g.PatchPositions(req.Positions)
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, positionPatchResponse{Updated: updated})
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	nodeID := r.PathValue("node_id")
	n := g.Node(nodeID)
	if n == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Node not found: %s", nodeID))
		return
	}
	var patch nodePatch
	if readJSON(w, r, &patch) != nil {
		return
	}
	if patch.X != nil {
		n.X = *patch.X
	}
	if patch.Y != nil {
		n.Y = *patch.Y
	}
	if patch.Text != nil {
		n.Text = *patch.Text
	}
	if patch.Metadata != nil {
		n.Metadata = patch.Metadata
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handleDeleteNode removes a node and cascades to every edge whose
// mainline references it.
func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	nodeID := r.PathValue("node_id")
	if !g.RemoveNode(nodeID) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Node not found: %s", nodeID))
		return
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
