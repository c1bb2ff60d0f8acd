package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

// SQLiteRepository stores each graph as a JSON document row. The aggregate
// is always read and written wholesale, so a document column beats a
// normalized schema here.
type SQLiteRepository struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewSQLiteRepository opens (and migrates) the database at path. A nil
// logger falls back to the global logger.
func NewSQLiteRepository(path string, log *zap.SugaredLogger) (*SQLiteRepository, error) {
	if log == nil {
		log = logger.Logger
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Infow("Graph database opened", "path", path)
	return &SQLiteRepository{db: db, log: log}, nil
}

// openDB opens SQLite with WAL mode and a busy timeout for concurrent
// reads during writes.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}
	return db, nil
}

// ListGraphs returns all graphs sorted by name.
func (r *SQLiteRepository) ListGraphs(ctx context.Context) ([]*graph.Graph, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM graphs ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query graphs")
	}
	defer rows.Close()

	var out []*graph.Graph
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to scan graph row")
		}
		var g graph.Graph
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, errors.Wrap(err, "failed to decode graph document")
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// GetGraph returns the graph with the given id.
func (r *SQLiteRepository) GetGraph(ctx context.Context, id string) (*graph.Graph, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM graphs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGraphNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load graph %s", id)
	}
	var g graph.Graph
	if err := json.Unmarshal(doc, &g); err != nil {
		return nil, errors.Wrapf(err, "failed to decode graph %s", id)
	}
	return &g, nil
}

// SaveGraph upserts a graph document.
func (r *SQLiteRepository) SaveGraph(ctx context.Context, g *graph.Graph) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "failed to encode graph document")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO graphs (id, name, doc, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, doc, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "failed to save graph %s", g.ID)
	}
	return nil
}

// DeleteGraph removes a graph.
func (r *SQLiteRepository) DeleteGraph(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete graph %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check delete result")
	}
	if n == 0 {
		return ErrGraphNotFound
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
