// Package project keeps timestamped saves of songs, grouped by project name,
// in a kv.Store.
package project

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/kv"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrNoSaves     = errors.New("project: no saves")
	ErrInvalidName = errors.New("project: invalid name")
)

const root = "project"

// SaveInfo describes one save of a project.
type SaveInfo struct {
	ID        string
	Project   string
	Label     string // empty if unnamed
	Timestamp time.Time
}

type record struct {
	Label     string           `msgpack:"label,omitempty"`
	Timestamp time.Time        `msgpack:"timestamp"`
	Song      rollseq.Snapshot `msgpack:"song"`
}

// Store reads and writes project saves.
type Store struct {
	kv kv.Store
	// Now returns the time stamped on new saves. Defaults to time.Now.
	Now func() time.Time
}

func NewStore(s kv.Store) *Store {
	return &Store{kv: s, Now: time.Now}
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, kv.Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func saveKey(name, id string) kv.Key { return kv.Key{root, name, "save", id} }

// Save stores a new save of song under project name and returns its info.
func (s *Store) Save(ctx context.Context, name, label string, song rollseq.Song) (SaveInfo, error) {
	if err := checkName(name); err != nil {
		return SaveInfo{}, err
	}
	snap, err := song.Snapshot()
	if err != nil {
		return SaveInfo{}, fmt.Errorf("project: could not snapshot song: %w", err)
	}
	now := s.Now()
	// the zero padded timestamp makes the keys sort chronologically
	id := fmt.Sprintf("%020d-%s", now.UnixNano(), uuid.NewString()[:8])
	b, err := msgpack.Marshal(record{Label: label, Timestamp: now, Song: snap})
	if err != nil {
		return SaveInfo{}, fmt.Errorf("project: could not encode save: %w", err)
	}
	if err := s.kv.Set(ctx, saveKey(name, id), b); err != nil {
		return SaveInfo{}, fmt.Errorf("project: could not store save: %w", err)
	}
	return SaveInfo{ID: id, Project: name, Label: label, Timestamp: now}, nil
}

// List returns the saves of project name, newest first.
func (s *Store) List(ctx context.Context, name string) ([]SaveInfo, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var saves []SaveInfo
	for e, err := range s.kv.List(ctx, kv.Key{root, name, "save"}) {
		if err != nil {
			return nil, err
		}
		var r record
		if err := msgpack.Unmarshal(e.Value, &r); err != nil {
			return nil, fmt.Errorf("project: corrupt save %v: %w", e.Key, err)
		}
		saves = append(saves, SaveInfo{ID: e.Key[len(e.Key)-1], Project: name, Label: r.Label, Timestamp: r.Timestamp})
	}
	slices.Reverse(saves)
	return saves, nil
}

// Load returns the song of a save. An empty id loads the latest save.
func (s *Store) Load(ctx context.Context, name, id string) (rollseq.Song, error) {
	if err := checkName(name); err != nil {
		return rollseq.Song{}, err
	}
	if id == "" {
		saves, err := s.List(ctx, name)
		if err != nil {
			return rollseq.Song{}, err
		}
		if len(saves) == 0 {
			return rollseq.Song{}, fmt.Errorf("%w in project %s", ErrNoSaves, name)
		}
		id = saves[0].ID
	}
	b, err := s.kv.Get(ctx, saveKey(name, id))
	if errors.Is(err, kv.ErrNotFound) {
		return rollseq.Song{}, fmt.Errorf("%w: project %s has no save %s", ErrNoSaves, name, id)
	}
	if err != nil {
		return rollseq.Song{}, err
	}
	var r record
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return rollseq.Song{}, fmt.Errorf("project: corrupt save %s: %w", id, err)
	}
	song, err := r.Song.Song()
	if err != nil {
		return rollseq.Song{}, fmt.Errorf("project: could not decode song: %w", err)
	}
	return song, nil
}

// Latest loads the newest save of project name.
func (s *Store) Latest(ctx context.Context, name string) (rollseq.Song, error) {
	return s.Load(ctx, name, "")
}

// Delete removes one save. An empty id removes the whole project.
func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if id != "" {
		return s.kv.Delete(ctx, saveKey(name, id))
	}
	saves, err := s.List(ctx, name)
	if err != nil {
		return err
	}
	keys := make([]kv.Key, len(saves))
	for i, save := range saves {
		keys[i] = saveKey(name, save.ID)
	}
	return s.kv.BatchDelete(ctx, keys)
}

// Projects returns the names of all the projects with at least one save,
// sorted alphabetically.
func (s *Store) Projects(ctx context.Context) ([]string, error) {
	var names []string
	for e, err := range s.kv.List(ctx, kv.Key{root}) {
		if err != nil {
			return nil, err
		}
		if len(e.Key) < 2 {
			continue
		}
		if n := e.Key[1]; len(names) == 0 || names[len(names)-1] != n {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
