package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

// JSONFileRepository persists every graph in one JSON document. Writes go
// through a temp file plus rename so readers never see a torn document.
type JSONFileRepository struct {
	mu     sync.Mutex
	path   string
	graphs map[string]*graph.Graph
	log    *zap.SugaredLogger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

type jsonDocument struct {
	Graphs []*graph.Graph `json:"graphs"`
}

// NewJSONFileRepository loads (or creates) the document at path. A nil
// logger falls back to the global logger.
func NewJSONFileRepository(path string, log *zap.SugaredLogger) (*JSONFileRepository, error) {
	if log == nil {
		log = logger.Logger
	}
	r := &JSONFileRepository{
		path:   path,
		graphs: make(map[string]*graph.Graph),
		log:    log,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JSONFileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read graph store %s", r.path)
	}
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "failed to parse graph store %s", r.path)
	}
	graphs := make(map[string]*graph.Graph, len(doc.Graphs))
	for _, g := range doc.Graphs {
		graphs[g.ID] = g
	}
	r.graphs = graphs
	return nil
}

// flushLocked writes the whole document. Callers must hold r.mu.
func (r *JSONFileRepository) flushLocked() error {
	doc := jsonDocument{Graphs: make([]*graph.Graph, 0, len(r.graphs))}
	for _, g := range r.graphs {
		doc.Graphs = append(doc.Graphs, g)
	}
	sort.Slice(doc.Graphs, func(i, j int) bool { return doc.Graphs[i].ID < doc.Graphs[j].ID })

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode graph store")
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create store directory")
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write graph store")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "failed to replace graph store")
	}
	return nil
}

// ListGraphs returns all graphs sorted by name.
func (r *JSONFileRepository) ListGraphs(_ context.Context) ([]*graph.Graph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*graph.Graph, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetGraph returns a copy of one graph.
func (r *JSONFileRepository) GetGraph(_ context.Context, id string) (*graph.Graph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.graphs[id]
	if !ok {
		return nil, ErrGraphNotFound
	}
	return g.Clone(), nil
}

// SaveGraph upserts a graph and rewrites the document.
func (r *JSONFileRepository) SaveGraph(_ context.Context, g *graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.ID] = g.Clone()
	return r.flushLocked()
}

// DeleteGraph removes a graph and rewrites the document.
func (r *JSONFileRepository) DeleteGraph(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.graphs[id]; !ok {
		return ErrGraphNotFound
	}
	delete(r.graphs, id)
	return r.flushLocked()
}

// Watch reloads the document when another process rewrites it, invoking
// onChange after each successful reload. Stops when Close is called.
func (r *JSONFileRepository) Watch(onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		w.Close()
		return errors.Wrap(err, "failed to watch store directory")
	}
	r.watcher = w
	r.done = make(chan struct{})

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != r.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				r.mu.Lock()
				err := r.load()
				r.mu.Unlock()
				if err != nil {
					r.log.Warnw("Failed to reload graph store after external change",
						"path", r.path, "error", err)
					continue
				}
				r.log.Debugw("Graph store reloaded after external change", "path", r.path)
				if onChange != nil {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.log.Warnw("Graph store watcher error", "error", err)
			case <-r.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the watcher, if any.
func (r *JSONFileRepository) Close() error {
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	if r.watcher != nil {
		err := r.watcher.Close()
		r.watcher = nil
		return err
	}
	return nil
}
