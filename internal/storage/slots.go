package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SlotExt is the file extension of save slots.
const SlotExt = ".sav"

// SaveInfo summarizes a save file without rebuilding its scene.
type SaveInfo struct {
	Path          string
	Name          string
	SchemaVersion int
	Tick          uint64
	NextID        uint64
	Cells         int
	Actors        int
	Kinds         map[string]int // Actor count per kind
	SavedAt       time.Time
	Err           error // Set by ListSlots for files that could not be read
}

// SlotPath returns the save file path for a named slot inside dir.
// Path separators in the name are replaced so a slot can never escape dir.
func SlotPath(dir, name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "default"
	}
	return filepath.Join(dir, name+SlotExt)
}

// Inspect reads the summary of a save file.
func Inspect(path string) (SaveInfo, error) {
	info := SaveInfo{Path: path, Name: strings.TrimSuffix(filepath.Base(path), SlotExt)}

	path, err := expandPath(path)
	if err != nil {
		return info, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := checkHeader(path); err != nil {
		return info, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return info, fmt.Errorf("%w: cannot open database: %w", ErrDecode, err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return info, err
	}
	info.SchemaVersion = meta.version
	info.Tick = meta.tick
	info.NextID = uint64(meta.nextID)
	info.SavedAt = meta.savedAt

	if err := db.QueryRow("SELECT COUNT(*) FROM cells").Scan(&info.Cells); err != nil {
		return info, fmt.Errorf("%w: cannot count cells: %w", ErrDecode, err)
	}

	rows, err := db.Query(
		`SELECT kind, COUNT(*)
		 FROM actors
		 GROUP BY kind
		 ORDER BY kind`,
	)
	if err != nil {
		return info, fmt.Errorf("%w: cannot count actors: %w", ErrDecode, err)
	}
	defer rows.Close()

	info.Kinds = make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return info, fmt.Errorf("%w: cannot scan row: %w", ErrDecode, err)
		}
		info.Kinds[kind] = n
		info.Actors += n
	}
	if err := rows.Err(); err != nil {
		return info, fmt.Errorf("%w: row iteration error: %w", ErrDecode, err)
	}

	return info, nil
}

// ListSlots inspects every save slot in dir, sorted by name.
// Unreadable slots are still listed with Err set. A missing directory yields
// an empty list.
func ListSlots(dir string) ([]SaveInfo, error) {
	dir, err := expandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", dir, err)
	}

	var slots []SaveInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != SlotExt || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := Inspect(filepath.Join(dir, e.Name()))
		info.Err = err
		slots = append(slots, info)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Name < slots[j].Name
	})
	return slots, nil
}
