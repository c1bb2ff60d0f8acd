// Package store provides the HTTP client for the remote graph service.
// It implements canvas.Store so gesture commits flow straight to the
// backend, plus the listing calls the shell and CLI use.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/internal/httpclient"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

const defaultTimeout = 15 * time.Second

// Client talks to the graph backend's REST API.
type Client struct {
	baseURL string
	http    *httpclient.Client
	log     *zap.SugaredLogger
}

// NewClient creates a client for the backend at baseURL (for example
// "http://localhost:8400"). A nil logger falls back to the global logger.
func NewClient(baseURL string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = logger.Logger
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(defaultTimeout),
		log:     log,
	}
}

type createNodeRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

type createEdgeRequest struct {
	SourceIDs []string `json:"source_ids"`
	TargetIDs []string `json:"target_ids"`
	Text      string   `json:"text,omitempty"`
}

type positionPatchRequest struct {
	Positions []graph.NodePosition `json:"positions"`
}

type createGraphRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"graph_type,omitempty"`
	Directed *bool  `json:"directed,omitempty"`
}

// ListGraphs fetches all graphs.
func (c *Client) ListGraphs(ctx context.Context) ([]*graph.Graph, error) {
	var out []*graph.Graph
	if err := c.do(ctx, http.MethodGet, "/api/graphs", nil, &out); err != nil {
		return nil, errors.Wrap(err, "failed to list graphs")
	}
	return out, nil
}

// GetGraph fetches one graph wholesale.
func (c *Client) GetGraph(ctx context.Context, graphID string) (*graph.Graph, error) {
	var out graph.Graph
	if err := c.do(ctx, http.MethodGet, "/api/graphs/"+graphID, nil, &out); err != nil {
		return nil, errors.Wrapf(err, "failed to get graph %s", graphID)
	}
	return &out, nil
}

// CreateGraph creates a graph on the backend.
func (c *Client) CreateGraph(ctx context.Context, name, graphType string) (*graph.Graph, error) {
	var out graph.Graph
	req := createGraphRequest{Name: name, Type: graphType}
	if err := c.do(ctx, http.MethodPost, "/api/graphs", req, &out); err != nil {
		return nil, errors.Wrap(err, "failed to create graph")
	}
	return &out, nil
}

// DeleteGraph removes a graph.
func (c *Client) DeleteGraph(ctx context.Context, graphID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/graphs/"+graphID, nil, nil); err != nil {
		return errors.Wrapf(err, "failed to delete graph %s", graphID)
	}
	return nil
}

// CreateNode adds a node to a graph.
func (c *Client) CreateNode(ctx context.Context, graphID string, x, y float64, text string) (*graph.Node, error) {
	var out graph.Node
	req := createNodeRequest{X: x, Y: y, Text: text}
	if err := c.do(ctx, http.MethodPost, "/api/graphs/"+graphID+"/nodes", req, &out); err != nil {
		return nil, errors.Wrap(err, "failed to create node")
	}
	return &out, nil
}

// UpdateNodePosition commits a node's position via the bulk patch
// endpoint.
func (c *Client) UpdateNodePosition(ctx context.Context, graphID, nodeID string, x, y float64) error {
	req := positionPatchRequest{Positions: []graph.NodePosition{{ID: nodeID, X: x, Y: y}}}
	if err := c.do(ctx, http.MethodPatch, "/api/graphs/"+graphID+"/nodes/positions", req, nil); err != nil {
		return errors.Wrapf(err, "failed to move node %s", nodeID)
	}
	return nil
}

// DeleteNode removes a node.
func (c *Client) DeleteNode(ctx context.Context, graphID, nodeID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/graphs/"+graphID+"/nodes/"+nodeID, nil, nil); err != nil {
		return errors.Wrapf(err, "failed to delete node %s", nodeID)
	}
	return nil
}

// CreateEdge adds an edge from the given tail members to the given head
// members.
func (c *Client) CreateEdge(ctx context.Context, graphID string, sourceIDs, targetIDs []string) (*graph.Edge, error) {
	var out graph.Edge
	req := createEdgeRequest{SourceIDs: sourceIDs, TargetIDs: targetIDs}
	if err := c.do(ctx, http.MethodPost, "/api/graphs/"+graphID+"/edges", req, &out); err != nil {
		return nil, errors.Wrap(err, "failed to create edge")
	}
	return &out, nil
}

// UpdateEdge applies a partial edge update.
func (c *Client) UpdateEdge(ctx context.Context, graphID, edgeID string, patch graph.EdgePatch) (*graph.Edge, error) {
	var out graph.Edge
	if err := c.do(ctx, http.MethodPatch, "/api/graphs/"+graphID+"/edges/"+edgeID, patch, &out); err != nil {
		return nil, errors.Wrapf(err, "failed to update edge %s", edgeID)
	}
	return &out, nil
}

// DeleteEdge removes an edge.
func (c *Client) DeleteEdge(ctx context.Context, graphID, edgeID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/graphs/"+graphID+"/edges/"+edgeID, nil, nil); err != nil {
		return errors.Wrapf(err, "failed to delete edge %s", edgeID)
	}
	return nil
}

// ReplaceGraph swaps in a whole-graph snapshot (undo/redo restore).
func (c *Client) ReplaceGraph(ctx context.Context, g *graph.Graph) error {
	if err := c.do(ctx, http.MethodPut, "/api/graphs/"+g.ID+"/snapshot", g, nil); err != nil {
		return errors.Wrapf(err, "failed to replace graph %s", g.ID)
	}
	return nil
}

// do issues one JSON request and decodes the response into out when
// non-nil. Non-2xx responses surface the backend's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return errors.Newf("%s (HTTP %d)", payload.Error, resp.StatusCode)
	}
	return errors.Newf("unexpected status %s", resp.Status)
}

// BaseURL reports the backend address the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Healthy probes the backend health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return errors.Wrap(err, "backend health check failed")
	}
	return nil
}

var _ fmt.Stringer = (*Client)(nil)

// String identifies the client target for logs.
func (c *Client) String() string { return "graph-store " + c.baseURL }
