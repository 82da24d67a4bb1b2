// Package storage persists whole scenes to save files and restores them.
//
// A save file is a SQLite database (pure-Go modernc.org/sqlite driver, no CGO)
// holding the field, every actor with its ID and kind state, and the camera.
// Kind state is msgpack-encoded and decoded through the kind registry. Files
// carry a format tag and schema version so files from another schema are
// rejected instead of misread.
package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/camera"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/field"
	"github.com/vovakirdan/scarab/internal/registry"
	"github.com/vovakirdan/scarab/internal/scene"
)

// SchemaVersion is the save schema written by this build.
const SchemaVersion = 1

const formatTag = "scarab-save"

// sqliteMagic is the header every SQLite 3 database file starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

var (
	// ErrEncode wraps failures while writing a save file.
	ErrEncode = errors.New("storage: cannot write save")

	// ErrDecode wraps failures while reading a save file.
	ErrDecode = errors.New("storage: cannot read save")

	// ErrIncompatibleSaveVersion is returned for saves of another schema version.
	ErrIncompatibleSaveVersion = errors.New("storage: incompatible save version")
)

const schema = `
	CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE cells (
		idx INTEGER PRIMARY KEY,
		solidity TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		w REAL NOT NULL,
		h REAL NOT NULL
	);

	CREATE TABLE actors (
		seq INTEGER PRIMARY KEY,
		id INTEGER NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		w REAL NOT NULL,
		h REAL NOT NULL,
		vx REAL NOT NULL,
		vy REAL NOT NULL,
		max_speed REAL NOT NULL,
		hard_blocking INTEGER NOT NULL DEFAULT 0,
		state BLOB NOT NULL
	);

	CREATE TABLE camera (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		x REAL NOT NULL,
		y REAL NOT NULL,
		w REAL NOT NULL,
		h REAL NOT NULL,
		viewport_w INTEGER NOT NULL,
		viewport_h INTEGER NOT NULL
	);
`

// Save writes the scene and camera to path.
//
// The snapshot is written to a temporary file in the same directory and
// renamed over path only once complete, so a failed save leaves any existing
// file untouched.
func Save(s *scene.Scene, c *camera.Camera, path string) error {
	path, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: cannot create directory %s: %w", ErrEncode, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: cannot create temp file: %w", ErrEncode, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := writeSnapshot(tmpPath, s, c); err != nil {
		removeTemp(tmpPath)
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		removeTemp(tmpPath)
		return fmt.Errorf("%w: cannot replace %s: %w", ErrEncode, path, err)
	}
	return nil
}

func removeTemp(path string) {
	//nolint:errcheck // Best-effort cleanup of a file nobody else references
	os.Remove(path)
	//nolint:errcheck // SQLite may leave a rollback journal on failure
	os.Remove(path + "-journal")
}

func writeSnapshot(path string, s *scene.Scene, c *camera.Camera) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close database: %w", cerr)
		}
	}()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("cannot create schema: %w", err)
	}

	meta := map[string]string{
		"format":           formatTag,
		"schema_version":   strconv.Itoa(SchemaVersion),
		"tick":             strconv.FormatUint(s.Tick(), 10),
		"next_id":          strconv.FormatUint(uint64(s.NextID()), 10),
		"actor_collisions": strconv.FormatBool(s.ActorCollisions()),
		"saved_at":         time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("cannot write meta %s: %w", k, err)
		}
	}

	for i, cell := range s.Field().Cells() {
		b := cell.Box
		if _, err := tx.Exec(
			"INSERT INTO cells (idx, solidity, x, y, w, h) VALUES (?, ?, ?, ?, ?, ?)",
			i, cell.Solidity.String(), b.Pos.X, b.Pos.Y, b.Size.X, b.Size.Y,
		); err != nil {
			return fmt.Errorf("cannot write cell %d: %w", i, err)
		}
	}

	seq := 0
	for id, a := range s.Actors() {
		kind := a.Kind()
		if !registry.Exists(kind) {
			return fmt.Errorf("actor %d: kind %q is not registered and could not be loaded back", id, kind)
		}
		state, err := msgpack.Marshal(a.State())
		if err != nil {
			return fmt.Errorf("actor %d: cannot encode %s state: %w", id, kind, err)
		}
		b, v := a.Box(), a.Velocity()
		if _, err := tx.Exec(
			`INSERT INTO actors
			 (seq, id, kind, x, y, w, h, vx, vy, max_speed, hard_blocking, state)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, int64(id), kind, //#nosec G115 -- ids are issued sequentially from 1
			b.Pos.X, b.Pos.Y, b.Size.X, b.Size.Y,
			v.X, v.Y, a.MaxSpeed(), a.HardBlocking(), state,
		); err != nil {
			return fmt.Errorf("cannot write actor %d: %w", id, err)
		}
		seq++
	}

	view := c.View()
	vw, vh := c.Viewport()
	if _, err := tx.Exec(
		"INSERT INTO camera (id, x, y, w, h, viewport_w, viewport_h) VALUES (1, ?, ?, ?, ?, ?, ?)",
		view.Pos.X, view.Pos.Y, view.Size.X, view.Size.Y, vw, vh,
	); err != nil {
		return fmt.Errorf("cannot write camera: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %w", err)
	}
	return nil
}

// Load reads a save file and rebuilds the scene and camera it describes.
// Options are applied to the rebuilt scene (logger, resolver); the actor
// collision setting comes from the file. Intents are not persisted and must
// be installed again by the caller.
//
// A missing file yields an error matching os.ErrNotExist.
func Load(path string, opts ...scene.Option) (*scene.Scene, *camera.Camera, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := checkHeader(path); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot open database: %w", ErrDecode, err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, nil, err
	}

	f, err := readField(db)
	if err != nil {
		return nil, nil, err
	}

	entries, err := readActors(db)
	if err != nil {
		return nil, nil, err
	}

	cam, err := readCamera(db)
	if err != nil {
		return nil, nil, err
	}

	opts = append(opts, scene.WithActorCollisions(meta.actorCollisions))
	s, err := scene.Rebuild(f, entries, meta.nextID, meta.tick, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return s, cam, nil
}

func checkHeader(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, sqliteMagic) {
		return fmt.Errorf("%w: %s is not a save file", ErrDecode, path)
	}
	return nil
}

type saveMeta struct {
	version         int
	tick            uint64
	nextID          scene.ActorID
	actorCollisions bool
	savedAt         time.Time
}

func readMeta(db *sql.DB) (saveMeta, error) {
	var m saveMeta

	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return m, fmt.Errorf("%w: missing meta table: %w", ErrDecode, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return m, fmt.Errorf("%w: cannot scan meta: %w", ErrDecode, err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return m, fmt.Errorf("%w: meta iteration error: %w", ErrDecode, err)
	}

	if values["format"] != formatTag {
		return m, fmt.Errorf("%w: unknown format %q", ErrDecode, values["format"])
	}
	m.version, err = strconv.Atoi(values["schema_version"])
	if err != nil {
		return m, fmt.Errorf("%w: bad schema version %q", ErrDecode, values["schema_version"])
	}
	if m.version != SchemaVersion {
		return m, fmt.Errorf("%w: file has schema %d, this build reads %d", ErrIncompatibleSaveVersion, m.version, SchemaVersion)
	}

	if m.tick, err = strconv.ParseUint(values["tick"], 10, 64); err != nil {
		return m, fmt.Errorf("%w: bad tick: %w", ErrDecode, err)
	}
	next, err := strconv.ParseUint(values["next_id"], 10, 64)
	if err != nil {
		return m, fmt.Errorf("%w: bad next id: %w", ErrDecode, err)
	}
	m.nextID = scene.ActorID(next)
	if m.actorCollisions, err = strconv.ParseBool(values["actor_collisions"]); err != nil {
		return m, fmt.Errorf("%w: bad actor collision flag: %w", ErrDecode, err)
	}
	if t, err := time.Parse(time.RFC3339, values["saved_at"]); err == nil {
		m.savedAt = t
	}
	return m, nil
}

func readField(db *sql.DB) (*field.Field, error) {
	rows, err := db.Query("SELECT solidity, x, y, w, h FROM cells ORDER BY idx")
	if err != nil {
		return nil, fmt.Errorf("%w: cannot query cells: %w", ErrDecode, err)
	}
	defer rows.Close()

	var cells []field.Cell
	for rows.Next() {
		var name string
		var b core.Box
		if err := rows.Scan(&name, &b.Pos.X, &b.Pos.Y, &b.Size.X, &b.Size.Y); err != nil {
			return nil, fmt.Errorf("%w: cannot scan cell: %w", ErrDecode, err)
		}
		sol, err := field.ParseSolidity(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		cells = append(cells, field.Cell{Solidity: sol, Box: b})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: cell iteration error: %w", ErrDecode, err)
	}

	f, err := field.New(cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return f, nil
}

func readActors(db *sql.DB) ([]scene.Entry, error) {
	rows, err := db.Query(
		`SELECT id, kind, x, y, w, h, vx, vy, max_speed, hard_blocking, state
		 FROM actors
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot query actors: %w", ErrDecode, err)
	}
	defer rows.Close()

	var entries []scene.Entry
	for rows.Next() {
		var (
			id       int64
			kind     string
			b        core.Box
			v        core.Vec
			maxSpeed float64
			hard     bool
			blob     []byte
		)
		if err := rows.Scan(&id, &kind, &b.Pos.X, &b.Pos.Y, &b.Size.X, &b.Size.Y,
			&v.X, &v.Y, &maxSpeed, &hard, &blob); err != nil {
			return nil, fmt.Errorf("%w: cannot scan actor: %w", ErrDecode, err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid actor id %d", ErrDecode, id)
		}

		state, err := registry.New(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: actor %d: %w", ErrDecode, id, err)
		}
		if err := msgpack.Unmarshal(blob, state); err != nil {
			return nil, fmt.Errorf("%w: actor %d: cannot decode %s state: %w", ErrDecode, id, kind, err)
		}

		a, err := actor.New(b, maxSpeed, state)
		if err != nil {
			return nil, fmt.Errorf("%w: actor %d: %w", ErrDecode, id, err)
		}
		if err := a.SetVelocity(v); err != nil {
			return nil, fmt.Errorf("%w: actor %d: %w", ErrDecode, id, err)
		}
		a.SetHardBlocking(hard)

		entries = append(entries, scene.Entry{ID: scene.ActorID(id), Actor: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: actor iteration error: %w", ErrDecode, err)
	}
	return entries, nil
}

func readCamera(db *sql.DB) (*camera.Camera, error) {
	var view core.Box
	var w, h int64
	err := db.QueryRow("SELECT x, y, w, h, viewport_w, viewport_h FROM camera WHERE id = 1").
		Scan(&view.Pos.X, &view.Pos.Y, &view.Size.X, &view.Size.Y, &w, &h)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read camera: %w", ErrDecode, err)
	}
	if w <= 0 || h <= 0 || w > int64(^uint32(0)) || h > int64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %w: %dx%d", ErrDecode, camera.ErrInvalidViewport, w, h)
	}

	cam, err := camera.New(view, uint32(w), uint32(h)) //#nosec G115 -- range checked above
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return cam, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty save path")
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
