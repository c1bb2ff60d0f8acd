// Package session persists client-local workspace state: the last selected
// graph, grid display settings, and the workspace view mode. Everything
// lives in one JSON blob under a fixed key, read once at startup and
// rewritten on every change.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

// StateKey is the fixed key the workspace blob is stored under.
const StateKey = "graph-canvas.workspace"

// Workspace is the persisted client-local state.
type Workspace struct {
	LastGraphID       string    `json:"last_graph_id"`
	GridVisible       bool      `json:"grid_visible"`
	GridColor         graph.RGB `json:"grid_color"`
	GridSize          int       `json:"grid_size"`
	GridLineThickness float64   `json:"grid_line_thickness"`
	ViewMode          string    `json:"view_mode"`
}

// DefaultWorkspace returns the state used when nothing (or garbage) is on
// disk.
func DefaultWorkspace() Workspace {
	return Workspace{
		GridVisible:       true,
		GridColor:         graph.DefaultGridColor,
		GridSize:          20,
		GridLineThickness: 1.0,
		ViewMode:          "canvas",
	}
}

// Store reads and writes the workspace blob at a fixed path.
type Store struct {
	path string
	log  *zap.SugaredLogger
}

// NewStore creates a store over the given state file path. A nil logger
// falls back to the global logger.
func NewStore(path string, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = logger.Logger
	}
	return &Store{path: path, log: log}
}

// Load hydrates the workspace. Missing or malformed state degrades to
// defaults and is never fatal.
func (s *Store) Load() Workspace {
	ws := DefaultWorkspace()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("Failed to read workspace state, using defaults",
				"path", s.path, "error", err)
		}
		return ws
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(data, &blob); err != nil {
		s.log.Warnw("Malformed workspace state, using defaults",
			"path", s.path, "error", err)
		return ws
	}
	raw, ok := blob[StateKey]
	if !ok {
		return ws
	}
	if err := json.Unmarshal(raw, &ws); err != nil {
		s.log.Warnw("Malformed workspace blob, using defaults",
			"path", s.path, "error", err)
		return DefaultWorkspace()
	}
	return ws
}

// Save rewrites the whole blob. Writes go through a temp file plus rename
// so a crash never leaves a torn state file.
func (s *Store) Save(ws Workspace) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create state directory")
	}
	blob := map[string]Workspace{StateKey: ws}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode workspace state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write workspace state")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "failed to replace workspace state")
	}
	return nil
}
