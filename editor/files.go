package editor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rollseq/rollseq"
)

// Format is the encoding of a song file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatForPath returns the format implied by the extension of path: JSON for
// .json, YAML for everything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeSong decodes a song from JSON, or from YAML if it is not JSON, and
// validates it.
func DecodeSong(b []byte) (rollseq.Song, error) {
	var song rollseq.Song
	if errJSON := json.Unmarshal(b, &song); errJSON != nil {
		song = rollseq.Song{}
		if errYaml := yaml.Unmarshal(b, &song); errYaml != nil {
			return rollseq.Song{}, fmt.Errorf("error unmarshaling a song file: %v / %v", errYaml, errJSON)
		}
	}
	if err := song.Validate(); err != nil {
		return rollseq.Song{}, fmt.Errorf("invalid song file: %w", err)
	}
	return song, nil
}

// EncodeSong encodes a song in the given format.
func EncodeSong(song rollseq.Song, f Format) ([]byte, error) {
	if f == FormatJSON {
		return json.MarshalIndent(song, "", "  ")
	}
	return yaml.Marshal(song)
}

// ReadSong replaces the song with the one read from r, and clears the
// history. r is closed.
func (m *Model) ReadSong(r io.ReadCloser) error {
	b, err := io.ReadAll(r)
	if err != nil {
		r.Close()
		return fmt.Errorf("could not read song: %w", err)
	}
	if err := r.Close(); err != nil {
		return err
	}
	song, err := DecodeSong(b)
	if err != nil {
		return err
	}
	defer m.change("ReadSong", SongChange, -1)()
	m.d.Song = song
	m.d.FilePath = ""
	if f, ok := r.(*os.File); ok {
		// a song read from a file is already persisted
		m.d.FilePath = f.Name()
		m.saved = true
	}
	m.history.Clear()
	m.changed = true
	return nil
}

// WriteSong writes the song to w in the given format. w is closed.
func (m *Model) WriteSong(w io.WriteCloser, f Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents, err := EncodeSong(m.d.Song, f)
	if err != nil {
		w.Close()
		return fmt.Errorf("error marshaling a song file: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		w.Close()
		return fmt.Errorf("error writing to file: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	if file, ok := w.(*os.File); ok {
		// the song is now persisted, so it is safe to quit without saving
		m.d.FilePath = file.Name()
		m.d.ChangedSinceSave = false
	}
	return nil
}
