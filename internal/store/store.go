// Package store keeps a history of extraction runs in SQLite. Each run
// stores its per-kind counts and the model document, zstd-compressed, so a
// query session can load any earlier model without rescanning.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/phobologic/springmap/internal/document"
	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/logging"
	"github.com/phobologic/springmap/internal/model"
)

// Latest selects the most recent run in Load.
const Latest = "latest"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run describes one stored extraction.
type Run struct {
	ID           string
	Root         string
	CreatedAt    time.Time
	Controllers  int
	Services     int
	Repositories int
	Entities     int
	Endpoints    int
	DocumentSize int // uncompressed document bytes
}

// Store is a run history database.
type Store struct {
	conn    *sql.DB
	logger  *slog.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the run database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, serrors.New(serrors.StoreError, "creating store directory", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, serrors.New(serrors.StoreError, "opening run database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, serrors.New(serrors.StoreError, "setting pragma", err)
		}
	}

	s := &Store{conn: conn, logger: logger, dbPath: path}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, serrors.New(serrors.StoreError, "initializing schema", err)
	}

	s.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = conn.Close()
		return nil, serrors.New(serrors.StoreError, "creating compressor", err)
	}
	s.decoder, err = zstd.NewReader(nil)
	if err != nil {
		_ = s.encoder.Close()
		_ = conn.Close()
		return nil, serrors.New(serrors.StoreError, "creating decompressor", err)
	}
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			created_at TEXT NOT NULL,
			controllers INTEGER NOT NULL,
			services INTEGER NOT NULL,
			repositories INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			endpoints INTEGER NOT NULL,
			document_size INTEGER NOT NULL,
			document BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close releases the database and codecs.
func (s *Store) Close() error {
	s.decoder.Close()
	_ = s.encoder.Close()
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

// Save records p as a new run of root.
func (s *Store) Save(ctx context.Context, root string, p *model.Project) (Run, error) {
	doc, err := document.Encode(p, document.JSON)
	if err != nil {
		return Run{}, serrors.New(serrors.StoreError, "encoding model", err)
	}
	run := Run{
		ID:           uuid.New().String(),
		Root:         root,
		CreatedAt:    time.Now().UTC(),
		Controllers:  len(p.Controllers),
		Services:     len(p.Services),
		Repositories: len(p.Repositories),
		Entities:     len(p.Entities),
		Endpoints:    p.EndpointCount(),
		DocumentSize: len(doc),
	}
	blob := s.encoder.EncodeAll(doc, nil)

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, root, created_at, controllers, services, repositories, entities, endpoints, document_size, document)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.Root,
			run.CreatedAt.Format(timeLayout),
			run.Controllers,
			run.Services,
			run.Repositories,
			run.Entities,
			run.Endpoints,
			run.DocumentSize,
			blob,
		)
		return err
	})
	if err != nil {
		return Run{}, serrors.New(serrors.StoreError, "saving run", err)
	}
	s.logger.Info("store.save", "id", run.ID, "bytes", len(doc), "compressed", len(blob))
	return run, nil
}

const runColumns = `id, root, created_at, controllers, services, repositories, entities, endpoints, document_size`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, extra ...any) (Run, error) {
	var r Run
	var created string
	dest := append([]any{
		&r.ID, &r.Root, &created,
		&r.Controllers, &r.Services, &r.Repositories, &r.Entities, &r.Endpoints,
		&r.DocumentSize,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return r, nil
}

// List returns runs newest first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, serrors.New(serrors.StoreError, "listing runs", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, serrors.New(serrors.StoreError, "reading run", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, serrors.New(serrors.StoreError, "listing runs", err)
	}
	return runs, nil
}

// Load returns the model stored for id, or for the newest run when id is
// Latest. A missing run is NOT_FOUND.
func (s *Store) Load(ctx context.Context, id string) (*model.Project, Run, error) {
	q := `SELECT ` + runColumns + `, document FROM runs WHERE id = ?`
	args := []any{id}
	if id == Latest {
		q = `SELECT ` + runColumns + `, document FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`
		args = nil
	}

	var blob []byte
	run, err := scanRun(s.conn.QueryRowContext(ctx, q, args...), &blob)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, Run{}, serrors.Newf(serrors.NotFound, "run %q not found", id)
	}
	if err != nil {
		return nil, Run{}, serrors.New(serrors.StoreError, "loading run", err)
	}

	doc, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, Run{}, serrors.New(serrors.StoreError, "decompressing run "+run.ID, err)
	}
	p, err := document.Decode(doc, document.JSON)
	if err != nil {
		return nil, Run{}, err
	}
	return p, run, nil
}

// Delete removes a run. A missing run is NOT_FOUND.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return serrors.New(serrors.StoreError, "deleting run", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return serrors.Newf(serrors.NotFound, "run %q not found", id)
	}
	return nil
}

// Prune keeps the newest keep runs and deletes the rest, returning how many
// were deleted.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
			)
		`, max(keep, 0))
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, serrors.New(serrors.StoreError, "pruning runs", err)
	}
	return int(deleted), nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
