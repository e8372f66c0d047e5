package rollseq

import (
	"fmt"
	"math"
	"slices"
)

// RhythmChannel is the MIDI channel (zero based) reserved for drums.
const RhythmChannel = 9

// Track is one track of a Song: its events and the MIDI channel the events
// are played on. A track without a channel is the conductor track, carrying
// the tempo, time signature and other meta events of the song.
//
// Properties such as the name, the program or the volume of a track are not
// stored as fields but read from the events: the name of the track is the
// text of its last track name event, the volume at a tick is the value of
// the last volume controller event at or before that tick and so on.
type Track struct {
	Channel    *int `yaml:"channel,omitempty" json:"channel,omitempty" msgpack:"channel,omitempty"`
	EventStore `yaml:",inline" msgpack:",inline"`
}

// Copy makes a deep copy of a Track.
func (t *Track) Copy() Track {
	var channel *int
	if t.Channel != nil {
		channel = Int(*t.Channel)
	}
	events := make([]Event, len(t.Events))
	for i := range t.Events {
		events[i] = t.Events[i].Copy()
	}
	return Track{
		Channel:    channel,
		EventStore: EventStore{Events: events, LastEventID: t.LastEventID},
	}
}

func (t *Track) IsConductorTrack() bool { return t.Channel == nil }
func (t *Track) IsRhythmTrack() bool    { return t.Channel != nil && *t.Channel == RhythmChannel }

// last returns the index of the last event matching pred, or -1.
func (t *Track) last(pred func(*Event) bool) int {
	for i := len(t.Events) - 1; i >= 0; i-- {
		if pred(&t.Events[i]) {
			return i
		}
	}
	return -1
}

// lastBefore returns the index of the last event at or before tick matching
// pred, or -1. Events are sorted by tick, so of the events sharing a tick the
// one added last wins.
func (t *Track) lastBefore(tick int, pred func(*Event) bool) int {
	end, _ := slices.BinarySearchFunc(t.Events, tick+1, func(e Event, tick int) int { return e.Tick - tick })
	for i := end - 1; i >= 0; i-- {
		if pred(&t.Events[i]) {
			return i
		}
	}
	return -1
}

func (t *Track) updateLast(pred func(*Event) bool, f Fields) bool {
	i := t.last(pred)
	if i < 0 {
		return false
	}
	_, ok := t.UpdateEvent(t.Events[i].ID, f)
	return ok
}

// Name returns the text of the last track name event.
func (t *Track) Name() (string, bool) {
	if i := t.last((*Event).IsTrackName); i >= 0 {
		return t.Events[i].Text, true
	}
	return "", false
}

// SetName changes the text of the last track name event. Does nothing if
// there is no track name event.
func (t *Track) SetName(name string) bool {
	return t.updateLast((*Event).IsTrackName, Fields{Text: &name})
}

func (t *Track) ProgramNumber() (int, bool) {
	if i := t.last((*Event).IsProgramChange); i >= 0 {
		return t.Events[i].Value, true
	}
	return 0, false
}

// SetProgramNumber changes the value of the last program change event. Does
// nothing if there is no program change event.
func (t *Track) SetProgramNumber(program int) bool {
	return t.updateLast((*Event).IsProgramChange, Fields{Value: &program})
}

// EndOfTrack returns the tick of the end-of-track event.
func (t *Track) EndOfTrack() (int, bool) {
	if i := t.last((*Event).IsEndOfTrack); i >= 0 {
		return t.Events[i].Tick, true
	}
	return 0, false
}

// SetEndOfTrack moves the end-of-track event. The end of track cannot be
// moved before the end of the last event; such a tick is clamped.
func (t *Track) SetEndOfTrack(tick int) bool {
	return t.updateLast((*Event).IsEndOfTrack, Fields{Tick: &tick})
}

func isController(controllerType int) func(*Event) bool {
	return func(e *Event) bool { return e.IsController(controllerType) }
}

// ControllerValue returns the value of the given controller in effect at tick.
func (t *Track) ControllerValue(controllerType, tick int) (int, bool) {
	if i := t.lastBefore(tick, isController(controllerType)); i >= 0 {
		return t.Events[i].Value, true
	}
	return 0, false
}

// SetControllerValue changes the controller event in effect at tick. If there
// is no controller event at or before tick, a new one is added at the start
// of the track, so that the value is defined from then on for every tick.
func (t *Track) SetControllerValue(controllerType, tick, value int) bool {
	if i := t.lastBefore(tick, isController(controllerType)); i >= 0 {
		_, ok := t.UpdateEvent(t.Events[i].ID, Fields{Value: &value})
		return ok
	}
	_, err := t.AddEvent(Controller(0, controllerType, value))
	return err == nil
}

func (t *Track) Volume(tick int) (int, bool) { return t.ControllerValue(VolumeController, tick) }
func (t *Track) SetVolume(tick, value int) bool {
	return t.SetControllerValue(VolumeController, tick, value)
}
func (t *Track) Pan(tick int) (int, bool) { return t.ControllerValue(PanController, tick) }
func (t *Track) SetPan(tick, value int) bool {
	return t.SetControllerValue(PanController, tick, value)
}

// TempoEvent returns the tempo event in effect at tick.
func (t *Track) TempoEvent(tick int) (Event, bool) {
	if i := t.lastBefore(tick, (*Event).IsSetTempo); i >= 0 {
		return t.Events[i].Copy(), true
	}
	return Event{}, false
}

// Tempo returns the tempo in effect at tick, in beats per minute.
func (t *Track) Tempo(tick int) (float64, bool) {
	e, ok := t.TempoEvent(tick)
	if !ok || e.MicrosecondsPerBeat <= 0 {
		return 0, false
	}
	return MicrosecondsPerBeatToBPM(e.MicrosecondsPerBeat), true
}

// SetTempo changes the tempo event in effect at tick. Unlike controllers, a
// missing tempo event is not created: SetTempo does nothing if there is no
// tempo event at or before tick.
func (t *Track) SetTempo(tick int, bpm float64) bool {
	if bpm <= 0 {
		return false
	}
	i := t.lastBefore(tick, (*Event).IsSetTempo)
	if i < 0 {
		return false
	}
	mpb := BPMToMicrosecondsPerBeat(bpm)
	_, ok := t.UpdateEvent(t.Events[i].ID, Fields{MicrosecondsPerBeat: &mpb})
	return ok
}

// TimeSignatureEvent returns the time signature event in effect at tick.
func (t *Track) TimeSignatureEvent(tick int) (Event, bool) {
	if i := t.lastBefore(tick, (*Event).IsTimeSignature); i >= 0 {
		return t.Events[i].Copy(), true
	}
	return Event{}, false
}

// DisplayName returns the name of the track, or a name made up from the
// channel if the track has no name.
func (t *Track) DisplayName() string {
	if name, ok := t.Name(); ok && name != "" {
		return name
	}
	if t.Channel == nil {
		return "Conductor"
	}
	return fmt.Sprintf("Track %d", *t.Channel)
}

// InstrumentName returns the General MIDI name of the program of the track.
func (t *Track) InstrumentName() (string, bool) {
	if t.IsRhythmTrack() {
		return "Standard Drum Kit", true
	}
	if p, ok := t.ProgramNumber(); ok {
		return InstrumentName(p)
	}
	return "", false
}

const microsecondsPerMinute = 60_000_000

func MicrosecondsPerBeatToBPM(mpb int) float64 { return microsecondsPerMinute / float64(mpb) }

// BPMToMicrosecondsPerBeat converts a tempo to microseconds per beat, rounded
// to the nearest microsecond.
func BPMToMicrosecondsPerBeat(bpm float64) int {
	return int(math.Round(microsecondsPerMinute / bpm))
}
