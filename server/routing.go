package server

import (
	"net/http"
)

// routes wires the REST surface and the WebSocket endpoint. The literal
// "positions" segment takes precedence over the {node_id} wildcard.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("GET /api/graphs", s.handleListGraphs)
	mux.HandleFunc("POST /api/graphs", s.handleCreateGraph)
	mux.HandleFunc("GET /api/graphs/{id}", s.handleGetGraph)
	mux.HandleFunc("PATCH /api/graphs/{id}", s.handleUpdateGraph)
	mux.HandleFunc("DELETE /api/graphs/{id}", s.handleDeleteGraph)
	mux.HandleFunc("PUT /api/graphs/{id}/snapshot", s.handleReplaceSnapshot)

	mux.HandleFunc("POST /api/graphs/{id}/nodes", s.handleCreateNode)
	mux.HandleFunc("PATCH /api/graphs/{id}/nodes/positions", s.handlePatchPositions)
	mux.HandleFunc("PATCH /api/graphs/{id}/nodes/{node_id}", s.handleUpdateNode)
	mux.HandleFunc("DELETE /api/graphs/{id}/nodes/{node_id}", s.handleDeleteNode)

	mux.HandleFunc("POST /api/graphs/{id}/edges", s.handleCreateEdge)
	mux.HandleFunc("PATCH /api/graphs/{id}/edges/{edge_id}", s.handleUpdateEdge)
	mux.HandleFunc("DELETE /api/graphs/{id}/edges/{edge_id}", s.handleDeleteEdge)

	return corsMiddleware(mux)
}

// corsMiddleware allows browser canvases served from another origin to
// reach the API during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
