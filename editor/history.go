package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rollseq/rollseq"
)

// HistoryStore keeps the undo and redo stacks of states of type T. It never
// looks inside the states; the owner is responsible for pushing the current
// state before each edit and for applying the state returned by Undo and
// Redo. The zero value is an empty, unbounded history.
type HistoryStore[T any] struct {
	// Limit is the maximum number of states kept on each stack; the oldest
	// states are dropped first. Zero means no limit.
	Limit int

	undo, redo []T
}

// Push saves current, the state before an edit, on the undo stack. The redo
// stack is cleared, as the edit makes the undone states unreachable.
func (h *HistoryStore[T]) Push(current T) {
	h.undo = h.limit(append(h.undo, current))
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo pops the latest state from the undo stack and returns it, saving
// current on the redo stack. ok is false if there is nothing to undo.
func (h *HistoryStore[T]) Undo(current T) (prev T, ok bool) {
	if len(h.undo) == 0 {
		return prev, false
	}
	prev = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = h.limit(append(h.redo, current))
	return prev, true
}

// Redo pops the latest state from the redo stack and returns it, saving
// current on the undo stack. ok is false if there is nothing to redo.
func (h *HistoryStore[T]) Redo(current T) (next T, ok bool) {
	if len(h.redo) == 0 {
		return next, false
	}
	next = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = h.limit(append(h.undo, current))
	return next, true
}

func (h *HistoryStore[T]) CanUndo() bool { return len(h.undo) > 0 }
func (h *HistoryStore[T]) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of states on the undo and the redo stacks.
func (h *HistoryStore[T]) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

func (h *HistoryStore[T]) Clear() {
	h.undo, h.redo = nil, nil
}

func (h *HistoryStore[T]) limit(s []T) []T {
	if h.Limit <= 0 || len(s) <= h.Limit {
		return s
	}
	n := copy(s, s[len(s)-h.Limit:])
	clear(s[n:])
	return s[:n]
}

// History returns the History view of the model, containing Actions to undo
// and redo and methods for saving recovery files.
func (m *Model) History() *HistoryModel { return (*HistoryModel)(m) }

type HistoryModel Model

// Undo returns an Action to undo the last change.
func (m *HistoryModel) Undo() Action { return MakeAction((*historyUndo)(m)) }

type historyUndo HistoryModel

func (m *historyUndo) Enabled() bool { return (*Model)(m).CanUndo() }
func (m *historyUndo) Do()           { (*Model)(m).Undo() }

// Redo returns an Action to redo the last undone change.
func (m *HistoryModel) Redo() Action { return MakeAction((*historyRedo)(m)) }

type historyRedo HistoryModel

func (m *historyRedo) Enabled() bool { return (*Model)(m).CanRedo() }
func (m *historyRedo) Do()           { (*Model)(m).Redo() }

// recoveryData is what gets saved to the recovery file.
type recoveryData struct {
	Song     rollseq.Song `json:"song"`
	FilePath string       `json:"filePath,omitempty"`
}

// MarshalRecovery marshals the current song for recovery saving.
func (m *HistoryModel) MarshalRecovery() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, err := json.Marshal(recoveryData{Song: m.d.Song, FilePath: m.d.FilePath})
	if err != nil {
		return nil, fmt.Errorf("could not marshal recovery data: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	return out, nil
}

// SaveRecovery saves the song to the recovery file if it has changed since
// the last save.
func (m *HistoryModel) SaveRecovery() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.d.ChangedSinceRecovery {
		return nil
	}
	if m.recoveryFilePath == "" {
		return errors.New("no recovery file path")
	}
	out, err := json.Marshal(recoveryData{Song: m.d.Song, FilePath: m.d.FilePath})
	if err != nil {
		return fmt.Errorf("could not marshal recovery data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.recoveryFilePath), 0o755); err != nil {
		return fmt.Errorf("could not create recovery directory: %w", err)
	}
	if err := os.WriteFile(m.recoveryFilePath, out, 0o644); err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	m.logger.Debug("saved recovery file", "path", m.recoveryFilePath)
	return nil
}

// LoadRecovery replaces the song with the one in the recovery file. The
// history is cleared. Returns an error satisfying errors.Is(err,
// os.ErrNotExist) if there is no recovery file.
func (m *HistoryModel) LoadRecovery() error {
	if m.recoveryFilePath == "" {
		return errors.New("no recovery file path")
	}
	b, err := os.ReadFile(m.recoveryFilePath)
	if err != nil {
		return err
	}
	return m.UnmarshalRecovery(b)
}

// UnmarshalRecovery replaces the song with one marshaled by MarshalRecovery.
func (m *HistoryModel) UnmarshalRecovery(b []byte) error {
	var data recoveryData
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("could not unmarshal recovery data: %w", err)
	}
	if err := data.Song.Validate(); err != nil {
		return fmt.Errorf("invalid recovery data: %w", err)
	}
	defer (*Model)(m).change("LoadRecovery", SongChange, -1)()
	m.d.Song = data.Song
	m.d.FilePath = data.FilePath
	m.history.Clear()
	m.changed = true
	m.recovered = true
	return nil
}
