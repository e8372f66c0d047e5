package editor

import (
	"github.com/rollseq/rollseq"
)

// TrackModel is the view of the model for one track, addressed by its index
// in the song. All the methods lock the model for the duration of the call
// and notify the subscribers once if the track changed.
type TrackModel struct {
	m     *Model
	index int
}

// Track returns the view of the track at index i. The index is checked only
// when the TrackModel is used; the operations on an out of range index fail
// with ErrNoTrack or return false.
func (m *Model) Track(i int) *TrackModel { return &TrackModel{m: m, index: i} }

func (t *TrackModel) Index() int { return t.index }

func (t *TrackModel) change(kind string) func() {
	return t.m.change("Track."+kind, TrackChange, t.index)
}

// Track returns a copy of the track.
func (t *TrackModel) Track() (rollseq.Track, bool) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	tr, err := t.m.track(t.index)
	if err != nil {
		return rollseq.Track{}, false
	}
	return tr.Copy(), true
}

// Events returns a copy of the events of the track, sorted by tick.
func (t *TrackModel) Events() []rollseq.Event {
	tr, _ := t.Track()
	return tr.Events
}

func (t *TrackModel) EventByID(id int) (rollseq.Event, bool) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	tr, err := t.m.track(t.index)
	if err != nil {
		return rollseq.Event{}, false
	}
	return tr.EventByID(id)
}

func (t *TrackModel) AddEvent(f rollseq.Fields) (rollseq.Event, error) {
	defer t.change("AddEvent")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return rollseq.Event{}, err
	}
	e, err := tr.AddEvent(f)
	t.m.changed = err == nil
	return e, err
}

func (t *TrackModel) AddEvents(list []rollseq.Fields) ([]rollseq.Event, error) {
	defer t.change("AddEvents")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return nil, err
	}
	added, err := tr.AddEvents(list)
	t.m.changed = len(added) > 0
	return added, err
}

func (t *TrackModel) UpdateEvent(id int, f rollseq.Fields) (prev rollseq.Event, ok bool) {
	defer t.change("UpdateEvent")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return rollseq.Event{}, false
	}
	prev, ok = tr.UpdateEvent(id, f)
	t.m.changed = ok
	return prev, ok
}

func (t *TrackModel) UpdateEvents(list []rollseq.Fields) int {
	defer t.change("UpdateEvents")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return 0
	}
	n := tr.UpdateEvents(list)
	t.m.changed = n > 0
	return n
}

func (t *TrackModel) RemoveEvent(id int) bool {
	defer t.change("RemoveEvent")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return false
	}
	t.m.changed = tr.RemoveEvent(id)
	return t.m.changed
}

func (t *TrackModel) RemoveEvents(ids []int) int {
	defer t.change("RemoveEvents")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return 0
	}
	n := tr.RemoveEvents(ids)
	t.m.changed = n > 0
	return n
}

func (t *TrackModel) CreateOrUpdate(f rollseq.Fields) (rollseq.Event, error) {
	defer t.change("CreateOrUpdate")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return rollseq.Event{}, err
	}
	rev := tr.Revision()
	e, err := tr.CreateOrUpdate(f)
	t.m.changed = tr.Revision() != rev
	return e, err
}

// setter runs one of the rollseq.Track setters that report whether they
// changed the track.
func (t *TrackModel) setter(kind string, f func(tr *rollseq.Track) bool) bool {
	defer t.change(kind)()
	tr, err := t.m.track(t.index)
	if err != nil {
		return false
	}
	t.m.changed = f(tr)
	return t.m.changed
}

func (t *TrackModel) SetName(name string) bool {
	return t.setter("SetName", func(tr *rollseq.Track) bool { return tr.SetName(name) })
}

func (t *TrackModel) SetProgramNumber(program int) bool {
	return t.setter("SetProgramNumber", func(tr *rollseq.Track) bool { return tr.SetProgramNumber(program) })
}

func (t *TrackModel) SetEndOfTrack(tick int) bool {
	return t.setter("SetEndOfTrack", func(tr *rollseq.Track) bool { return tr.SetEndOfTrack(tick) })
}

func (t *TrackModel) SetControllerValue(controllerType, tick, value int) bool {
	return t.setter("SetControllerValue", func(tr *rollseq.Track) bool {
		return tr.SetControllerValue(controllerType, tick, value)
	})
}

func (t *TrackModel) SetVolume(tick, value int) bool {
	return t.setter("SetVolume", func(tr *rollseq.Track) bool { return tr.SetVolume(tick, value) })
}

func (t *TrackModel) SetPan(tick, value int) bool {
	return t.setter("SetPan", func(tr *rollseq.Track) bool { return tr.SetPan(tick, value) })
}

func (t *TrackModel) SetTempo(tick int, bpm float64) bool {
	return t.setter("SetTempo", func(tr *rollseq.Track) bool { return tr.SetTempo(tick, bpm) })
}

// Record adds the notes and other events of a recording to the track, as one
// batch. The recording is converted to ticks using the tempo of the song at
// its start.
func (t *TrackModel) Record(r Recording) ([]rollseq.Event, error) {
	defer t.change("Record")()
	tr, err := t.m.track(t.index)
	if err != nil {
		return nil, err
	}
	bpm, ok := t.m.d.Song.Tempo(r.StartTick)
	if !ok {
		bpm = 120
	}
	added, err := tr.AddEvents(r.Fields(bpm, t.m.d.Song.TimeBase))
	t.m.changed = len(added) > 0
	return added, err
}
