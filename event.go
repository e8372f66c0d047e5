package rollseq

import (
	"maps"
	"math"
	"reflect"
)

type (
	// Event is a single timed item of a track: a note, a controller change, a
	// meta event such as tempo or track name, or any other MIDI event. Event
	// is a flat union of all the payloads; which fields are meaningful depends
	// on Type and Subtype. Fields not modeled here are kept in Extra, so
	// events read from a file survive a save unchanged.
	Event struct {
		ID      int       `yaml:"id" msgpack:"id"`
		Tick    int       `yaml:"tick" msgpack:"tick"`
		Type    EventType `yaml:"type,omitempty" msgpack:"type,omitempty"`
		Subtype Subtype   `yaml:"subtype,omitempty" msgpack:"subtype,omitempty"`

		Duration            int    `yaml:"duration,omitempty" msgpack:"duration,omitempty"`
		NoteNumber          int    `yaml:"noteNumber,omitempty" msgpack:"noteNumber,omitempty"`
		Velocity            int    `yaml:"velocity,omitempty" msgpack:"velocity,omitempty"`
		ControllerType      int    `yaml:"controllerType,omitempty" msgpack:"controllerType,omitempty"`
		Value               int    `yaml:"value,omitempty" msgpack:"value,omitempty"`
		MicrosecondsPerBeat int    `yaml:"microsecondsPerBeat,omitempty" msgpack:"microsecondsPerBeat,omitempty"`
		Numerator           int    `yaml:"numerator,omitempty" msgpack:"numerator,omitempty"`
		Denominator         int    `yaml:"denominator,omitempty" msgpack:"denominator,omitempty"`
		Text                string `yaml:"text,omitempty" msgpack:"text,omitempty"`

		Extra map[string]any `yaml:",inline" msgpack:"extra,omitempty"`
	}

	// Fields is a partial Event: nil fields are left as they are when the
	// Fields are applied to an event. Fields is used both for adding new
	// events (where Tick is required) and for updating existing ones.
	Fields struct {
		// ID is only read by the batch operations that address events by id,
		// e.g. EventStore.UpdateEvents. Applying Fields never changes the id.
		ID *int

		Tick                *int
		Type                *EventType
		Subtype             *Subtype
		Duration            *int
		NoteNumber          *int
		Velocity            *int
		ControllerType      *int
		Value               *int
		MicrosecondsPerBeat *int
		Numerator           *int
		Denominator         *int
		Text                *string
		Extra               map[string]any
	}

	EventType string
	Subtype   string
)

const (
	ChannelEvent      EventType = "channel"
	MetaEvent         EventType = "meta"
	SysExEvent        EventType = "sysEx"
	DividedSysExEvent EventType = "dividedSysEx"
)

const (
	NoteSubtype          Subtype = "note"
	ControllerSubtype    Subtype = "controller"
	ProgramChangeSubtype Subtype = "programChange"
	SetTempoSubtype      Subtype = "setTempo"
	TimeSignatureSubtype Subtype = "timeSignature"
	TrackNameSubtype     Subtype = "trackName"
	EndOfTrackSubtype    Subtype = "endOfTrack"
)

// General MIDI controller numbers used by the track queries.
const (
	VolumeController = 7
	PanController    = 10
)

// Int returns a pointer to v. Useful for filling Fields.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func typed(t EventType, s Subtype, tick int) Fields {
	return Fields{Tick: &tick, Type: &t, Subtype: &s}
}

// Note returns the fields of a new note event.
func Note(tick, duration, noteNumber, velocity int) Fields {
	f := typed(ChannelEvent, NoteSubtype, tick)
	f.Duration, f.NoteNumber, f.Velocity = &duration, &noteNumber, &velocity
	return f
}

// Controller returns the fields of a new control change event.
func Controller(tick, controllerType, value int) Fields {
	f := typed(ChannelEvent, ControllerSubtype, tick)
	f.ControllerType, f.Value = &controllerType, &value
	return f
}

func ProgramChange(tick, program int) Fields {
	f := typed(ChannelEvent, ProgramChangeSubtype, tick)
	f.Value = &program
	return f
}

// SetTempo returns the fields of a new tempo event. The tempo is given in
// microseconds per quarter note, as stored in MIDI files.
func SetTempo(tick, microsecondsPerBeat int) Fields {
	f := typed(MetaEvent, SetTempoSubtype, tick)
	f.MicrosecondsPerBeat = &microsecondsPerBeat
	return f
}

func TimeSignature(tick, numerator, denominator int) Fields {
	f := typed(MetaEvent, TimeSignatureSubtype, tick)
	f.Numerator, f.Denominator = &numerator, &denominator
	return f
}

func TrackName(tick int, text string) Fields {
	f := typed(MetaEvent, TrackNameSubtype, tick)
	f.Text = &text
	return f
}

func EndOfTrack(tick int) Fields {
	return typed(MetaEvent, EndOfTrackSubtype, tick)
}

// End returns the tick where the event ends. Only notes have a duration, so
// for other events this is the same as Tick.
func (e *Event) End() int { return e.Tick + e.Duration }

func (e *Event) IsNote() bool { return e.is(ChannelEvent, NoteSubtype) }
func (e *Event) IsController(controllerType int) bool {
	return e.is(ChannelEvent, ControllerSubtype) && e.ControllerType == controllerType
}
func (e *Event) IsProgramChange() bool { return e.is(ChannelEvent, ProgramChangeSubtype) }
func (e *Event) IsSetTempo() bool      { return e.is(MetaEvent, SetTempoSubtype) }
func (e *Event) IsTimeSignature() bool { return e.is(MetaEvent, TimeSignatureSubtype) }
func (e *Event) IsTrackName() bool     { return e.is(MetaEvent, TrackNameSubtype) }
func (e *Event) IsEndOfTrack() bool    { return e.is(MetaEvent, EndOfTrackSubtype) }

func (e *Event) is(t EventType, s Subtype) bool { return e.Type == t && e.Subtype == s }

// Apply returns a copy of the event with all the non-nil fields of f set.
// Extra keys in f are merged into the extra keys of the event. The ID of the
// event is never changed.
func (e Event) Apply(f Fields) Event {
	set(&e.Tick, f.Tick)
	set(&e.Type, f.Type)
	set(&e.Subtype, f.Subtype)
	set(&e.Duration, f.Duration)
	set(&e.NoteNumber, f.NoteNumber)
	set(&e.Velocity, f.Velocity)
	set(&e.ControllerType, f.ControllerType)
	set(&e.Value, f.Value)
	set(&e.MicrosecondsPerBeat, f.MicrosecondsPerBeat)
	set(&e.Numerator, f.Numerator)
	set(&e.Denominator, f.Denominator)
	set(&e.Text, f.Text)
	if len(f.Extra) > 0 {
		extra := make(map[string]any, len(e.Extra)+len(f.Extra))
		maps.Copy(extra, e.Extra)
		maps.Copy(extra, f.Extra)
		e.Extra = extra
	}
	return e
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Fields returns the event as Fields with every field set, including the ID.
func (e *Event) Fields() Fields {
	c := e.Copy()
	return Fields{
		ID:                  &c.ID,
		Tick:                &c.Tick,
		Type:                &c.Type,
		Subtype:             &c.Subtype,
		Duration:            &c.Duration,
		NoteNumber:          &c.NoteNumber,
		Velocity:            &c.Velocity,
		ControllerType:      &c.ControllerType,
		Value:               &c.Value,
		MicrosecondsPerBeat: &c.MicrosecondsPerBeat,
		Numerator:           &c.Numerator,
		Denominator:         &c.Denominator,
		Text:                &c.Text,
		Extra:               c.Extra,
	}
}

// Equal reports whether two events have identical fields. A nil Extra and an
// empty Extra are considered equal. Numbers in Extra are compared by value,
// so 3, int8(3) and 3.0 are all equal: decoders pick different Go types for
// the same number.
func (e *Event) Equal(o Event) bool {
	if !e.valueEqual(&o) {
		return false
	}
	if len(e.Extra) == 0 && len(o.Extra) == 0 {
		return true
	}
	return reflect.DeepEqual(canonical(e.Extra), canonical(o.Extra))
}

// canonical returns v with every number converted to int64, or to float64 if
// it is not integral, recursing into maps and slices.
func canonical(v any) any {
	switch x := v.(type) {
	case map[string]any:
		ret := make(map[string]any, len(x))
		for k, v := range x {
			ret[k] = canonical(v)
		}
		return ret
	case []any:
		ret := make([]any, len(x))
		for i, v := range x {
			ret[i] = canonical(v)
		}
		return ret
	case float32:
		return canonicalFloat(float64(x))
	case float64:
		return canonicalFloat(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return canonicalUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return canonicalUint(x)
	}
	return v
}

func canonicalFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

func canonicalUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

func (e *Event) valueEqual(o *Event) bool {
	return e.ID == o.ID && e.Tick == o.Tick && e.Type == o.Type && e.Subtype == o.Subtype &&
		e.Duration == o.Duration && e.NoteNumber == o.NoteNumber && e.Velocity == o.Velocity &&
		e.ControllerType == o.ControllerType && e.Value == o.Value &&
		e.MicrosecondsPerBeat == o.MicrosecondsPerBeat && e.Numerator == o.Numerator &&
		e.Denominator == o.Denominator && e.Text == o.Text
}

// Copy makes a deep copy of the event.
func (e *Event) Copy() Event {
	ret := *e
	ret.Extra = maps.Clone(e.Extra)
	return ret
}
