package rollseq

import (
	"encoding/json"
	"maps"
)

// eventJSON has the same layout as Event minus Extra; it is the part of the
// JSON encoding that encoding/json can handle with struct tags alone.
type eventJSON struct {
	ID                  int       `json:"id"`
	Tick                int       `json:"tick"`
	Type                EventType `json:"type,omitempty"`
	Subtype             Subtype   `json:"subtype,omitempty"`
	Duration            int       `json:"duration,omitempty"`
	NoteNumber          int       `json:"noteNumber,omitempty"`
	Velocity            int       `json:"velocity,omitempty"`
	ControllerType      int       `json:"controllerType,omitempty"`
	Value               int       `json:"value,omitempty"`
	MicrosecondsPerBeat int       `json:"microsecondsPerBeat,omitempty"`
	Numerator           int       `json:"numerator,omitempty"`
	Denominator         int       `json:"denominator,omitempty"`
	Text                string    `json:"text,omitempty"`
}

var knownEventKeys = map[string]bool{
	"id": true, "tick": true, "type": true, "subtype": true, "duration": true,
	"noteNumber": true, "velocity": true, "controllerType": true, "value": true,
	"microsecondsPerBeat": true, "numerator": true, "denominator": true, "text": true,
}

// MarshalJSON writes the event as a flat JSON object, with the Extra keys next
// to the modeled ones. Extra keys never override modeled fields.
func (e Event) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(eventJSON{
		e.ID, e.Tick, e.Type, e.Subtype, e.Duration, e.NoteNumber, e.Velocity,
		e.ControllerType, e.Value, e.MicrosecondsPerBeat, e.Numerator,
		e.Denominator, e.Text,
	})
	if err != nil || len(e.Extra) == 0 {
		return known, err
	}
	obj := make(map[string]any, len(e.Extra)+len(knownEventKeys))
	for k, v := range e.Extra {
		if !knownEventKeys[k] {
			obj[k] = v
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flat JSON object; keys that are not modeled by Event
// are kept in Extra.
func (e *Event) UnmarshalJSON(b []byte) error {
	var known eventJSON
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	maps.DeleteFunc(all, func(k string, _ any) bool { return knownEventKeys[k] })
	*e = Event{
		ID: known.ID, Tick: known.Tick, Type: known.Type, Subtype: known.Subtype,
		Duration: known.Duration, NoteNumber: known.NoteNumber, Velocity: known.Velocity,
		ControllerType: known.ControllerType, Value: known.Value,
		MicrosecondsPerBeat: known.MicrosecondsPerBeat, Numerator: known.Numerator,
		Denominator: known.Denominator, Text: known.Text,
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}
