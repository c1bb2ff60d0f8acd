package server

import (
	"fmt"
	"net/http"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// validateMembers checks that every member id names an existing node, or
// an existing edge when the graph type allows edge members. The edge
// being patched may not reference itself.
func validateMembers(g *graph.Graph, selfEdgeID string, ids []string) error {
	for _, id := range ids {
		if g.Node(id) != nil {
			continue
		}
		if g.Type.AllowsEdgeMembers() && id != selfEdgeID && g.Edge(id) != nil {
			continue
		}
		return errors.Newf("unknown member id: %s", id)
	}
	return nil
}

func (s *Server) handleCreateEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	var req createEdgeRequest
	if readJSON(w, r, &req) != nil {
		return
	}

	// Accept either the member-set form or the plain mainline pair.
	sourceIDs := req.SourceIDs
	targetIDs := req.TargetIDs
	if len(sourceIDs) == 0 && req.SourceID != "" {
		sourceIDs = []string{req.SourceID}
	}
	if len(targetIDs) == 0 && req.TargetID != "" {
		targetIDs = []string{req.TargetID}
	}
	if len(sourceIDs) == 0 || len(targetIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Edge needs at least one source and one target member")
		return
	}
	if (len(sourceIDs) > 1 || len(targetIDs) > 1) && !g.Type.AllowsHyperMembers() {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Graph type %s does not allow multi-member edges", g.Type))
		return
	}
	if err := validateMembers(g, "", sourceIDs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateMembers(g, "", targetIDs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := g.CreateEdge(sourceIDs[0], targetIDs[0], req.Text)
	for _, id := range sourceIDs[1:] {
		e.AddMember(graph.RoleTail, id)
	}
	for _, id := range targetIDs[1:] {
		e.AddMember(graph.RoleHead, id)
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	edgeID := r.PathValue("edge_id")
	e := g.Edge(edgeID)
	if e == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Edge not found: %s", edgeID))
		return
	}
	var patch graph.EdgePatch
	if readJSON(w, r, &patch) != nil {
		return
	}

	added := append(append([]string{}, patch.AddSourceIDs...), patch.AddTargetIDs...)
	if len(added) > 0 && !g.Type.AllowsHyperMembers() {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Graph type %s does not allow multi-member edges", g.Type))
		return
	}
	if err := validateMembers(g, edgeID, added); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.SourceID != nil {
		if err := validateMembers(g, edgeID, []string{*patch.SourceID}); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if patch.TargetID != nil {
		if err := validateMembers(g, edgeID, []string{*patch.TargetID}); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := patch.Apply(e); err != nil {
		if errors.Is(err, graph.ErrLastMember) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Errorw("Failed to patch edge", "edge_id", edgeID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to patch edge")
		return
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	edgeID := r.PathValue("edge_id")
	if !g.RemoveEdge(edgeID) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Edge not found: %s", edgeID))
		return
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
