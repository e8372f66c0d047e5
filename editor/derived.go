package editor

/*
	from the song we can derive per-track information that the UI reads on
	every frame, e.g. the titles of the tracks. It is cached here and needs to
	be updated when the song changes, and only then.
*/

type (
	derivedForTrack struct {
		title      string
		instrument string
		endOfTrack int
	}

	derivedModelData struct {
		// map track by index
		forTrack []derivedForTrack
	}
)

// public access functions

// TrackTitle returns the name of the track at index i, or a name made up from
// its channel if it has none.
func (m *Model) TrackTitle(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.derived.forTrack) {
		return ""
	}
	return m.derived.forTrack[i].title
}

// TrackInstrument returns the General MIDI instrument name of the track.
func (m *Model) TrackInstrument(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.derived.forTrack) {
		return ""
	}
	return m.derived.forTrack[i].instrument
}

// SongEnd returns the latest end-of-track tick of all the tracks.
func (m *Model) SongEnd() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := 0
	for _, t := range m.derived.forTrack {
		end = max(end, t.endOfTrack)
	}
	return end
}

// init / update methods

func (m *Model) updateDerivedData() {
	tracks := m.d.Song.Tracks
	m.derived.forTrack = make([]derivedForTrack, len(tracks))
	for i := range tracks {
		t := &tracks[i]
		d := &m.derived.forTrack[i]
		d.title = t.DisplayName()
		d.instrument, _ = t.InstrumentName()
		d.endOfTrack, _ = t.EndOfTrack()
	}
}
