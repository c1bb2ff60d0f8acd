package server

import (
	"fmt"
	"net/http"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/storage"
)

// loadGraph fetches a graph or writes the appropriate error response.
func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (*graph.Graph, bool) {
	id := r.PathValue("id")
	g, err := s.repo.GetGraph(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrGraphNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Graph not found: %s", id))
		} else {
			s.log.Errorw("Failed to load graph", "graph_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load graph")
		}
		return nil, false
	}
	return g, true
}

// saveGraph persists a mutated graph and queues a mutation notice.
func (s *Server) saveGraph(w http.ResponseWriter, r *http.Request, g *graph.Graph) bool {
	if err := s.repo.SaveGraph(r.Context(), g); err != nil {
		s.log.Errorw("Failed to save graph", "graph_id", g.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save graph")
		return false
	}
	s.notify(g.ID)
	return true
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := s.repo.ListGraphs(r.Context())
	if err != nil {
		s.log.Errorw("Failed to list graphs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list graphs")
		return
	}
	writeJSON(w, http.StatusOK, graphs)
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if readJSON(w, r, &req) != nil {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Graph name is required")
		return
	}
	graphType, err := graph.NormalizeType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.ID != "" {
		if _, err := s.repo.GetGraph(r.Context(), req.ID); err == nil {
			writeError(w, http.StatusConflict, fmt.Sprintf("Graph already exists: %s", req.ID))
			return
		}
	}

	g := graph.New(req.ID, req.Name)
	g.Type = graphType
	if req.Directed != nil {
		g.Directed = *req.Directed
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	s.log.Infow("Created graph", "graph_id", g.ID, "name", g.Name, "type", g.Type)
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	var patch graphPatch
	if readJSON(w, r, &patch) != nil {
		return
	}
	if patch.Type != nil {
		graphType, err := graph.NormalizeType(*patch.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.Type = graphType
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Directed != nil {
		g.Directed = *patch.Directed
	}
	if patch.BackgroundColor != nil {
		g.BackgroundColor = *patch.BackgroundColor
	}
	if patch.GridVisible != nil {
		g.GridVisible = *patch.GridVisible
	}
	if patch.GridSize != nil {
		g.GridSize = *patch.GridSize
	}
	if patch.GridColor != nil {
		g.GridColor = *patch.GridColor
	}
	if patch.GridLineThickness != nil {
		g.GridLineThickness = *patch.GridLineThickness
	}
	if !s.saveGraph(w, r, g) {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteGraph(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrGraphNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Graph not found: %s", id))
		} else {
			s.log.Errorw("Failed to delete graph", "graph_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete graph")
		}
		return
	}
	s.notify(id)
	s.log.Infow("Deleted graph", "graph_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReplaceSnapshot swaps in a whole-graph snapshot. Undo/redo in the
// canvas restores through this endpoint.
func (s *Server) handleReplaceSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var g graph.Graph
	if readJSON(w, r, &g) != nil {
		return
	}
	g.ID = id
	if _, err := graph.NormalizeType(string(g.Type)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.saveGraph(w, r, &g) {
		return
	}
	s.log.Debugw("Replaced graph snapshot", "graph_id", id,
		"nodes", len(g.Nodes), "edges", len(g.Edges))
	writeJSON(w, http.StatusOK, &g)
}
