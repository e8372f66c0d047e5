package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/rollseq/rollseq"
)

// Model implements the mutable state of a song being edited: the song itself,
// its undo/redo history and the subscribers interested in changes.
type (
	// modelData is the part of the model that describes the document.
	modelData struct {
		Song                 rollseq.Song
		FilePath             string
		ChangedSinceSave     bool
		ChangedSinceRecovery bool
	}

	Model struct {
		mu sync.Mutex

		d       modelData
		derived derivedModelData
		history HistoryStore[rollseq.Snapshot]

		broker           *Broker
		logger           *slog.Logger
		recoveryFilePath string

		observers    map[int]func(Change)
		nextObserver int

		// set by the operation in progress; read by the function returned
		// from change
		changed   bool
		recovered bool
		saved     bool
	}

	// Config configures a new Model.
	Config struct {
		// MaxHistory caps the number of undo (and redo) steps. Zero means no
		// limit.
		MaxHistory int
		// RecoveryFilePath is where SaveRecovery saves the song. If a file
		// exists there when the model is created, the song is loaded from it.
		RecoveryFilePath string
		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Change describes one logical change of the model, as delivered to the
	// subscribers.
	Change struct {
		Kind string
		Type ChangeType
		// Track is the index of the changed track, or -1 if the change is
		// not about a single track.
		Track int
	}

	ChangeType int
)

const (
	TrackChange ChangeType = iota
	SongChange
	HistoryChange
)

// ErrNoTrack is returned when a track index is out of range.
var ErrNoTrack = errors.New("no such track")

// NewModel returns a model editing a new song, or the song of the recovery
// file if there is one.
func NewModel(broker *Broker, cfg Config) *Model {
	m := &Model{
		broker:           broker,
		logger:           cfg.Logger,
		recoveryFilePath: cfg.RecoveryFilePath,
		observers:        map[int]func(Change){},
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.history.Limit = cfg.MaxHistory
	m.d.Song = rollseq.NewSong()
	m.updateDerivedData()
	if m.recoveryFilePath != "" {
		err := m.History().LoadRecovery()
		switch {
		case err == nil:
			m.logger.Info("loaded recovery file", "path", m.recoveryFilePath)
		case !errors.Is(err, os.ErrNotExist):
			m.logger.Warn("could not load recovery file", "path", m.recoveryFilePath, "err", err)
		}
	}
	return m
}

// Subscribe registers f to be called after every change of the model. f is
// called on the goroutine that made the change, after the model has been
// unlocked. The returned function unsubscribes f.
func (m *Model) Subscribe(f func(Change)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = f
	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// change locks the model for an operation and returns the function that ends
// it. The operation sets m.changed if it changed anything; only then are the
// derived data updated, the player sent the new song and the subscribers
// notified. Use as:
//
//	defer m.change("AddEvent", TrackChange, index)()
func (m *Model) change(kind string, t ChangeType, track int) func() {
	m.mu.Lock()
	m.changed, m.recovered, m.saved = false, false, false
	return func() {
		if !m.changed {
			m.mu.Unlock()
			return
		}
		c := Change{Kind: kind, Type: t, Track: track}
		if t != HistoryChange {
			m.d.ChangedSinceSave = !m.saved
			m.d.ChangedSinceRecovery = !m.recovered
			m.updateDerivedData()
			if m.broker != nil {
				TrySend(m.broker.ToPlayer, m.d.Song.Copy())
			}
		}
		observers := make([]func(Change), 0, len(m.observers))
		for _, o := range m.observers {
			observers = append(observers, o)
		}
		m.changed = false
		m.mu.Unlock()
		for _, o := range observers {
			o(c)
		}
	}
}

// Song returns a copy of the song being edited.
func (m *Model) Song() rollseq.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.Song.Copy()
}

// SetSong replaces the song. The replacement is not undoable by itself; call
// PushHistory first to make it so.
func (m *Model) SetSong(song rollseq.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("could not set song: %w", err)
	}
	defer m.change("SetSong", SongChange, -1)()
	m.d.Song = song.Copy()
	m.changed = true
	return nil
}

// NewSong replaces the song with a new one and clears the history.
func (m *Model) NewSong() {
	defer m.change("NewSong", SongChange, -1)()
	m.d.Song = rollseq.NewSong()
	m.d.FilePath = ""
	m.history.Clear()
	m.changed = true
}

func (m *Model) TrackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.d.Song.Tracks)
}

// AddTrack appends a new empty track on the given channel and returns its
// index. A nil channel adds a conductor track.
func (m *Model) AddTrack(channel *int) int {
	defer m.change("AddTrack", SongChange, -1)()
	t := rollseq.Track{}
	if channel != nil {
		t.Channel = rollseq.Int(*channel)
	}
	m.d.Song.Tracks = append(m.d.Song.Tracks, t)
	m.changed = true
	return len(m.d.Song.Tracks) - 1
}

// RemoveTrack removes the track at index i. The tracks after it move one
// position down.
func (m *Model) RemoveTrack(i int) bool {
	defer m.change("RemoveTrack", SongChange, -1)()
	if i < 0 || i >= len(m.d.Song.Tracks) {
		return false
	}
	m.d.Song.Tracks = append(m.d.Song.Tracks[:i], m.d.Song.Tracks[i+1:]...)
	m.changed = true
	return true
}

// PushHistory saves the current song on the undo stack. It should be called
// before each logical user edit.
func (m *Model) PushHistory() error {
	defer m.change("PushHistory", HistoryChange, -1)()
	snap, err := m.d.Song.Snapshot()
	if err != nil {
		return err
	}
	m.history.Push(snap)
	m.changed = true
	return nil
}

// Undo restores the song saved by the latest PushHistory. Returns false if
// there is nothing to undo.
func (m *Model) Undo() bool {
	defer m.change("Undo", SongChange, -1)()
	return m.swap(m.history.Undo, m.history.Redo)
}

// Redo reverts the latest Undo. Returns false if there is nothing to redo.
func (m *Model) Redo() bool {
	defer m.change("Redo", SongChange, -1)()
	return m.swap(m.history.Redo, m.history.Undo)
}

func (m *Model) swap(pop, revert func(rollseq.Snapshot) (rollseq.Snapshot, bool)) bool {
	cur, err := m.d.Song.Snapshot()
	if err != nil {
		m.logger.Error("could not snapshot song", "err", err)
		return false
	}
	snap, ok := pop(cur)
	if !ok {
		return false
	}
	song, err := snap.Song()
	if err != nil {
		revert(snap)
		m.logger.Error("could not restore snapshot", "err", err)
		return false
	}
	m.d.Song = song
	m.changed = true
	return true
}

func (m *Model) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.CanUndo()
}

func (m *Model) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.CanRedo()
}

func (m *Model) ClearHistory() {
	defer m.change("ClearHistory", HistoryChange, -1)()
	u, r := m.history.Len()
	m.history.Clear()
	m.changed = u+r > 0
}

// FilePath returns the path the song was last read from or written to.
func (m *Model) FilePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.FilePath
}

// ChangedSinceSave reports whether the song has unsaved changes.
func (m *Model) ChangedSinceSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.ChangedSinceSave
}

// ProcessMsg handles a message received from Broker.ToModel.
func (m *Model) ProcessMsg(msg MsgToModel) {
	switch e := msg.Data.(type) {
	case Recording:
		if _, err := m.Track(e.Track).Record(e); err != nil {
			m.logger.Warn("could not add recording", "track", e.Track, "err", err)
		}
	case nil:
	default:
		m.logger.Warn("unknown message to model", "type", fmt.Sprintf("%T", e))
	}
}

// track returns the track at index i. The model must be locked.
func (m *Model) track(i int) (*rollseq.Track, error) {
	if i < 0 || i >= len(m.d.Song.Tracks) {
		return nil, fmt.Errorf("%w: %d", ErrNoTrack, i)
	}
	return &m.d.Song.Tracks[i], nil
}
