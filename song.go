package rollseq

import (
	"errors"
	"fmt"
)

// DefaultTimeBase is the default resolution of a song, in ticks per quarter
// note.
const DefaultTimeBase = 480

// Song is the whole composition: the time base shared by all the tracks and
// the tracks themselves. Tracks are addressed by their position; event ids
// are only unique within a track.
type Song struct {
	TimeBase int     `yaml:"timeBase" json:"timeBase" msgpack:"timeBase"`
	Tracks   []Track `yaml:"tracks" json:"tracks" msgpack:"tracks"`
}

// Copy makes a deep copy of a Song.
func (s *Song) Copy() Song {
	tracks := make([]Track, len(s.Tracks))
	for i := range s.Tracks {
		tracks[i] = s.Tracks[i].Copy()
	}
	return Song{TimeBase: s.TimeBase, Tracks: tracks}
}

// ConductorTrack returns the first track without a channel, or nil if there
// is none.
func (s *Song) ConductorTrack() *Track {
	for i := range s.Tracks {
		if s.Tracks[i].IsConductorTrack() {
			return &s.Tracks[i]
		}
	}
	return nil
}

// Tempo returns the tempo of the song at tick, read from the conductor track.
func (s *Song) Tempo(tick int) (float64, bool) {
	if t := s.ConductorTrack(); t != nil {
		return t.Tempo(tick)
	}
	return 0, false
}

// Validate checks that the song could have been produced by the editing
// operations: every track has its events sorted by tick, no negative ticks
// and unique ids all below its LastEventID.
func (s *Song) Validate() error {
	if s.TimeBase <= 0 {
		return fmt.Errorf("time base must be positive, got %d", s.TimeBase)
	}
	for i := range s.Tracks {
		if err := s.Tracks[i].validate(); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
	}
	return nil
}

func (s *EventStore) validate() error {
	seen := make(map[int]bool, len(s.Events))
	for i, e := range s.Events {
		if e.Tick < 0 {
			return fmt.Errorf("event %d has a negative tick", e.ID)
		}
		if i > 0 && e.Tick < s.Events[i-1].Tick {
			return errors.New("events are not sorted by tick")
		}
		if e.ID < 0 || e.ID >= s.LastEventID {
			return fmt.Errorf("event id %d out of range [0,%d)", e.ID, s.LastEventID)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate event id %d", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// NewSong returns the song a new document starts with: a conductor track
// with a name, a tempo of 120 BPM and a 4/4 time signature, and one track on
// the first channel.
func NewSong() Song {
	var conductor Track
	conductor.AddEvents([]Fields{
		TrackName(0, "Conductor"),
		SetTempo(0, BPMToMicrosecondsPerBeat(120)),
		TimeSignature(0, 4, 4),
	})
	track := Track{Channel: Int(0)}
	track.AddEvents([]Fields{
		TrackName(0, "Track 1"),
		ProgramChange(0, 0),
		Controller(0, VolumeController, 100),
		Controller(0, PanController, 64),
	})
	return Song{TimeBase: DefaultTimeBase, Tracks: []Track{conductor, track}}
}
