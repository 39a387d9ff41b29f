// Package storage persists extracted API surfaces as snapshots so a
// baseline can be captured once and compared against later builds.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"apidiff/internal/apierrors"
	"apidiff/internal/logging"
	"apidiff/internal/surface"
)

// DefaultDir is the directory holding the snapshot database
const DefaultDir = ".apidiff"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	version     TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	size_bytes  INTEGER NOT NULL,
	payload     BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name, created_at);
`

// Snapshot describes one stored surface without its payload
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"createdAt"`
	SizeBytes   int64     `json:"sizeBytes"`
}

// Store is the snapshot database. Payloads are zstd-compressed surface
// descriptors, content-addressed by a SHA-256 fingerprint.
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the snapshot database under dir
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	dbPath := filepath.Join(dir, "snapshots.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Store{
		conn:    conn,
		logger:  logger.Named("storage"),
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}

// Save persists one surface and returns its snapshot record. Saving the
// same content twice returns the existing snapshot unchanged.
func (s *Store) Save(asm *surface.Assembly) (*Snapshot, error) {
	data, err := json.Marshal(asm)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	fingerprint := hex.EncodeToString(sum[:])

	if existing, err := s.byFingerprint(fingerprint); err == nil {
		s.logger.Debug("Snapshot already stored", map[string]interface{}{
			"id":   existing.ID,
			"name": existing.Name,
		})
		return existing, nil
	}

	payload := s.encoder.EncodeAll(data, nil)
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Name:        asm.Name,
		Version:     asm.Version,
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
		SizeBytes:   int64(len(data)),
	}

	_, err = s.conn.Exec(
		`INSERT INTO snapshots (id, name, version, fingerprint, created_at, size_bytes, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.Version, snap.Fingerprint,
		snap.CreatedAt.Unix(), snap.SizeBytes, payload,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.Info("Stored snapshot", map[string]interface{}{
		"id":         snap.ID,
		"name":       snap.Name,
		"version":    snap.Version,
		"sizeBytes":  snap.SizeBytes,
		"compressed": len(payload),
	})

	return snap, nil
}

// List returns all snapshots, newest first, without payloads
func (s *Store) List() ([]Snapshot, error) {
	rows, err := s.conn.Query(
		`SELECT id, name, version, fingerprint, created_at, size_bytes
		 FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created int64
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Version, &snap.Fingerprint, &created, &snap.SizeBytes); err != nil {
			return nil, err
		}
		snap.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Load resolves a snapshot reference to its surface. The reference is a
// snapshot id, an id prefix, or an assembly name (newest wins).
func (s *Store) Load(ref string) (*surface.Assembly, error) {
	row := s.conn.QueryRow(
		`SELECT payload FROM snapshots
		 WHERE id = ? OR id LIKE ? OR name = ?
		 ORDER BY created_at DESC LIMIT 1`,
		ref, ref+"%", ref)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierrors.Errorf(apierrors.SnapshotNotFound, "no snapshot matches %q", ref)
		}
		return nil, err
	}

	data, err := s.decoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var asm surface.Assembly
	if err := json.Unmarshal(data, &asm); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &asm, nil
}

func (s *Store) byFingerprint(fingerprint string) (*Snapshot, error) {
	row := s.conn.QueryRow(
		`SELECT id, name, version, fingerprint, created_at, size_bytes
		 FROM snapshots WHERE fingerprint = ?`, fingerprint)

	var snap Snapshot
	var created int64
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Version, &snap.Fingerprint, &created, &snap.SizeBytes); err != nil {
		return nil, err
	}
	snap.CreatedAt = time.Unix(created, 0).UTC()
	return &snap, nil
}

// SnapshotRef reports whether a compare argument refers to a stored
// snapshot rather than a descriptor file, and returns the reference
func SnapshotRef(arg string) (string, bool) {
	if strings.HasPrefix(arg, "snap:") {
		return strings.TrimPrefix(arg, "snap:"), true
	}
	return "", false
}
