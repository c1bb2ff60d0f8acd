package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/storage"
	"github.com/tbrumbaugh5396/graph-canvas/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	s := New(repo, "127.0.0.1:0", nil)
	srv := httptest.NewServer(s.routes())
	t.Cleanup(func() {
		srv.Close()
		repo.Close()
	})
	return s, srv
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createGraph(t *testing.T, baseURL, name, graphType string) *graph.Graph {
	t.Helper()
	resp := doRequest(t, http.MethodPost, baseURL+"/api/graphs",
		map[string]any{"name": name, "graph_type": graphType})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[*graph.Graph](t, resp)
}

func TestCreateGraphDefaultsAndValidation(t *testing.T) {
	_, srv := newTestServer(t)

	g := createGraph(t, srv.URL, "demo", "")
	assert.Equal(t, graph.TypeGraph, g.Type)
	assert.True(t, g.Directed)
	assert.NotEmpty(t, g.ID)
	assert.True(t, g.GridVisible)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/graphs",
		map[string]any{"name": "bad", "graph_type": "septagraph"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/graphs", map[string]any{"name": ""})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetGraphNotFound(t *testing.T) {
	_, srv := newTestServer(t)
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/graphs/nope", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateGraphSettings(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "graph")

	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/graphs/"+g.ID, map[string]any{
		"name":         "renamed",
		"grid_visible": false,
		"grid_size":    40,
		"grid_color":   []int{10, 20, 30},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[*graph.Graph](t, resp)
	assert.Equal(t, "renamed", got.Name)
	assert.False(t, got.GridVisible)
	assert.Equal(t, 40, got.GridSize)
	assert.Equal(t, graph.RGB{10, 20, 30}, got.GridColor)
}

func TestNodeLifecycle(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "graph")
	base := srv.URL + "/api/graphs/" + g.ID

	resp := doRequest(t, http.MethodPost, base+"/nodes",
		map[string]any{"x": 10.0, "y": 20.0, "text": "a"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	n := decodeBody[*graph.Node](t, resp)
	assert.Equal(t, 10.0, n.X)
	assert.NotEmpty(t, n.ID)

	resp = doRequest(t, http.MethodPatch, base+"/nodes/positions", map[string]any{
		"positions": []map[string]any{
			{"id": n.ID, "x": 50.0, "y": 60.0},
			{"id": "ghost", "x": 1.0, "y": 1.0},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeBody[positionPatchResponse](t, resp)
	assert.Equal(t, []string{n.ID}, patched.Updated)

	resp = doRequest(t, http.MethodPatch, base+"/nodes/"+n.ID,
		map[string]any{"text": "renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[*graph.Node](t, resp)
	assert.Equal(t, "renamed", updated.Text)
	assert.Equal(t, 50.0, updated.X)

	resp = doRequest(t, http.MethodDelete, base+"/nodes/"+n.ID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, base+"/nodes/"+n.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNodeCascadesEdges(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "graph")
	base := srv.URL + "/api/graphs/" + g.ID

	a := decodeBody[*graph.Node](t, doRequest(t, http.MethodPost, base+"/nodes",
		map[string]any{"x": 0.0, "y": 0.0, "text": "a"}))
	b := decodeBody[*graph.Node](t, doRequest(t, http.MethodPost, base+"/nodes",
		map[string]any{"x": 100.0, "y": 0.0, "text": "b"}))

	resp := doRequest(t, http.MethodPost, base+"/edges",
		map[string]any{"source_id": a.ID, "target_id": b.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, base+"/nodes/"+a.ID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody[*graph.Graph](t, doRequest(t, http.MethodGet, base, nil))
	assert.Len(t, got.Nodes, 1)
	assert.Empty(t, got.Edges)
}

func TestCreateEdgeValidation(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "graph")
	base := srv.URL + "/api/graphs/" + g.ID

	a := decodeBody[*graph.Node](t, doRequest(t, http.MethodPost, base+"/nodes",
		map[string]any{"x": 0.0, "y": 0.0, "text": "a"}))
	b := decodeBody[*graph.Node](t, doRequest(t, http.MethodPost, base+"/nodes",
		map[string]any{"x": 100.0, "y": 0.0, "text": "b"}))

	// Missing target.
	resp := doRequest(t, http.MethodPost, base+"/edges", map[string]any{"source_id": a.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown member.
	resp = doRequest(t, http.MethodPost, base+"/edges",
		map[string]any{"source_id": a.ID, "target_id": "ghost"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Multi-member sets need a hyper-capable graph type.
	resp = doRequest(t, http.MethodPost, base+"/edges",
		map[string]any{"source_ids": []string{a.ID, b.ID}, "target_ids": []string{b.ID}})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, base+"/edges",
		map[string]any{"source_id": a.ID, "target_id": b.ID, "text": "link"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	e := decodeBody[*graph.Edge](t, resp)
	assert.Equal(t, []string{a.ID}, e.SourceIDs)
	assert.Equal(t, []string{b.ID}, e.TargetIDs)
	assert.Equal(t, a.ID, e.SourceID)
}

func TestHypergraphEdgeMembers(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "hypergraph")
	base := srv.URL + "/api/graphs/" + g.ID

	ids := make([]string, 3)
	for i := range ids {
		n := decodeBody[*graph.Node](t, doRequest(t, http.MethodPost, base+"/nodes",
			map[string]any{"x": float64(i) * 50, "y": 0.0, "text": fmt.Sprintf("n%d", i)}))
		ids[i] = n.ID
	}

	resp := doRequest(t, http.MethodPost, base+"/edges", map[string]any{
		"source_ids": []string{ids[0], ids[1]},
		"target_ids": []string{ids[2]},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	e := decodeBody[*graph.Edge](t, resp)
	assert.Equal(t, []string{ids[0], ids[1]}, e.SourceIDs)
	assert.Equal(t, ids[0], e.SourceID)

	// Removing the sole head member is rejected.
	resp = doRequest(t, http.MethodPatch, base+"/edges/"+e.ID,
		map[string]any{"remove_target_ids": []string{ids[2]}})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Removing one of two tail members shifts the mainline.
	resp = doRequest(t, http.MethodPatch, base+"/edges/"+e.ID,
		map[string]any{"remove_source_ids": []string{ids[0]}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[*graph.Edge](t, resp)
	assert.Equal(t, []string{ids[1]}, got.SourceIDs)
	assert.Equal(t, ids[1], got.SourceID)
}

func TestSnapshotReplaceForcesPathID(t *testing.T) {
	_, srv := newTestServer(t)
	g := createGraph(t, srv.URL, "demo", "graph")

	snap := graph.New("other-id", "replaced")
	snap.CreateNode(5, 5, "only")
	resp := doRequest(t, http.MethodPut, srv.URL+"/api/graphs/"+g.ID+"/snapshot", snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[*graph.Graph](t, resp)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, "replaced", got.Name)
	require.Len(t, got.Nodes, 1)
}

func TestStoreClientRoundTrip(t *testing.T) {
	_, srv := newTestServer(t)
	ctx := context.Background()
	client := store.NewClient(srv.URL, nil)

	require.NoError(t, client.Healthy(ctx))

	g, err := client.CreateGraph(ctx, "demo", "ubergraph")
	require.NoError(t, err)
	assert.Equal(t, graph.TypeUbergraph, g.Type)

	a, err := client.CreateNode(ctx, g.ID, 0, 0, "a")
	require.NoError(t, err)
	b, err := client.CreateNode(ctx, g.ID, 100, 0, "b")
	require.NoError(t, err)

	e, err := client.CreateEdge(ctx, g.ID, []string{a.ID}, []string{b.ID})
	require.NoError(t, err)

	require.NoError(t, client.UpdateNodePosition(ctx, g.ID, a.ID, 30, 40))

	head := b.ID
	patched, err := client.UpdateEdge(ctx, g.ID, e.ID, graph.EdgePatch{
		AddSourceIDs: []string{b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, patched.SourceIDs)
	assert.Equal(t, head, patched.TargetID)

	got, err := client.GetGraph(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Node(a.ID).X)

	require.NoError(t, client.DeleteEdge(ctx, g.ID, e.ID))
	require.NoError(t, client.DeleteNode(ctx, g.ID, a.ID))

	list, err := client.ListGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, client.DeleteGraph(ctx, g.ID))
	_, err = client.GetGraph(ctx, g.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestWebSocketBroadcastsGraphUpdates(t *testing.T) {
	s, srv := newTestServer(t)
	s.wg.Add(2)
	go s.runHub()
	go s.runBroadcaster()
	defer close(s.done)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.clients) == 1
	}, time.Second, 10*time.Millisecond)

	g := createGraph(t, srv.URL, "demo", "graph")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg UpdateMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "graph_updated", msg.Type)
	assert.Equal(t, g.ID, msg.GraphID)
}
