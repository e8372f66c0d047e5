package rollseq

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// ErrInvalidEvent is returned when an event to be added has no valid tick.
var ErrInvalidEvent = errors.New("invalid event")

// EventStore is the ordered collection of events of one track.
//
// Events are kept sorted by tick after every operation; events with equal
// ticks keep their insertion order. Ids are assigned from LastEventID, which
// only ever grows, so an id is never reused even after its event is removed.
// The store also maintains an end-of-track event, whose tick is kept at the
// latest end of any event in the store.
//
// Events and LastEventID are exported for serialization only; mutate the
// store through its methods.
type EventStore struct {
	Events      []Event `yaml:"events" json:"events"`
	LastEventID int     `yaml:"lastEventId" json:"lastEventId" msgpack:"lastEventId"`

	// index maps ids to positions in Events. A built index is never mutated,
	// only replaced, so copies of the store can share it.
	index map[int]int
	// revision counts the mutations of the store
	revision uint64
}

// Revision returns a number that changes every time the store is modified.
func (s *EventStore) Revision() uint64 { return s.revision }

// EventByID returns the event with the given id.
func (s *EventStore) EventByID(id int) (Event, bool) {
	i, ok := s.find(id)
	if !ok {
		return Event{}, false
	}
	return s.Events[i].Copy(), true
}

func (s *EventStore) find(id int) (int, bool) {
	i, ok := s.index[id]
	if ok && i < len(s.Events) && s.Events[i].ID == id {
		return i, true
	}
	if len(s.index) == len(s.Events) && !ok {
		return 0, false
	}
	s.reindex()
	i, ok = s.index[id]
	return i, ok
}

func (s *EventStore) reindex() {
	index := make(map[int]int, len(s.Events))
	for i, e := range s.Events {
		index[e.ID] = i
	}
	s.index = index
}

func validate(f Fields) error {
	if f.Tick == nil {
		return fmt.Errorf("%w: missing tick", ErrInvalidEvent)
	}
	if *f.Tick < 0 {
		return fmt.Errorf("%w: negative tick %d", ErrInvalidEvent, *f.Tick)
	}
	return nil
}

// AddEvent adds a new event built from f and returns it with its assigned id.
// f.Tick must be set and non-negative, otherwise ErrInvalidEvent is returned
// and the store is left unchanged.
func (s *EventStore) AddEvent(f Fields) (Event, error) {
	added, err := s.AddEvents([]Fields{f})
	if err != nil {
		return Event{}, err
	}
	return added[0], nil
}

// AddEvents adds all the events in one go: ids are assigned in the order of
// list, and the store is sorted and its end of track updated once. If any of
// the events is invalid, none of them are added.
func (s *EventStore) AddEvents(list []Fields) ([]Event, error) {
	for i, f := range list {
		if err := validate(f); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	ret := make([]Event, len(list))
	for i, f := range list {
		e := Event{ID: s.LastEventID}.Apply(f)
		s.LastEventID++
		s.Events = append(s.Events, e)
		ret[i] = e.Copy()
	}
	s.settle()
	return ret, nil
}

// UpdateEvent applies f to the event with the given id and returns the event
// as it was before the update. ok is false if the id is unknown (which is
// logged as a warning), if the update would not change anything or if it
// would move the event to a negative tick.
func (s *EventStore) UpdateEvent(id int, f Fields) (prev Event, ok bool) {
	prev, ok = s.update(id, f)
	if ok {
		s.settle()
	}
	return prev, ok
}

// UpdateEvents applies a batch of updates, each addressed by its ID field.
// Updates without an ID or with an unknown one are skipped. Returns the
// number of events that changed.
func (s *EventStore) UpdateEvents(list []Fields) int {
	n := 0
	for _, f := range list {
		if f.ID == nil {
			slog.Warn("event update without id")
			continue
		}
		if _, ok := s.update(*f.ID, f); ok {
			n++
		}
	}
	if n > 0 {
		s.settle()
	}
	return n
}

func (s *EventStore) update(id int, f Fields) (Event, bool) {
	i, ok := s.find(id)
	if !ok {
		slog.Warn("unknown event id", "id", id)
		return Event{}, false
	}
	old := s.Events[i]
	e := old.Apply(f)
	if e.Tick < 0 {
		slog.Warn("event update with negative tick", "id", id, "tick", e.Tick)
		return Event{}, false
	}
	if e.Equal(old) {
		return Event{}, false
	}
	s.Events[i] = e
	return old.Copy(), true
}

// RemoveEvent removes the event with the given id. Returns false if there is
// no such event.
func (s *EventStore) RemoveEvent(id int) bool {
	return s.RemoveEvents([]int{id}) > 0
}

// RemoveEvents removes all the events with the given ids and returns the
// number of events removed. Unknown ids are ignored.
func (s *EventStore) RemoveEvents(ids []int) int {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.find(id); ok {
			drop[id] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}
	s.Events = slices.DeleteFunc(s.Events, func(e Event) bool { return drop[e.ID] })
	s.settle()
	return len(drop)
}

// CreateOrUpdate sets the fields of c to every event that has the same type
// and tick as c, and also the same subtype if both have one. If no event
// matches, a new event is added instead. Either way, the first matching (or
// the new) event is returned, so calling CreateOrUpdate repeatedly with the
// same fields leaves a single event.
func (s *EventStore) CreateOrUpdate(c Fields) (Event, error) {
	if err := validate(c); err != nil {
		return Event{}, err
	}
	var ids []int
	for _, e := range s.Events {
		if c.matches(&e) {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return s.AddEvent(c)
	}
	changed := false
	for _, id := range ids {
		if _, ok := s.update(id, c); ok {
			changed = true
		}
	}
	if changed {
		s.settle()
	}
	e, _ := s.EventByID(ids[0])
	return e, nil
}

func (c *Fields) matches(e *Event) bool {
	var typ EventType
	set(&typ, c.Type)
	if e.Type != typ || e.Tick != *c.Tick {
		return false
	}
	if c.Subtype != nil && *c.Subtype != "" && e.Subtype != "" {
		return e.Subtype == *c.Subtype
	}
	return true
}

// settle restores the invariants of the store after a mutation.
func (s *EventStore) settle() {
	s.updateEndOfTrack()
	slices.SortStableFunc(s.Events, func(a, b Event) int { return cmp.Compare(a.Tick, b.Tick) })
	s.reindex()
	s.revision++
}

// updateEndOfTrack moves the end-of-track event to the latest end of all the
// events, itself included, so the marker can be moved later but never before
// the end of the last note. A store with no events gets no marker; otherwise
// the marker is created if missing.
func (s *EventStore) updateEndOfTrack() {
	if len(s.Events) == 0 {
		return
	}
	end, eot := 0, -1
	for i := range s.Events {
		e := &s.Events[i]
		if !e.IsEndOfTrack() {
			end = max(end, e.End())
			continue
		}
		end = max(end, e.Tick)
		if eot < 0 || e.Tick >= s.Events[eot].Tick {
			eot = i
		}
	}
	if eot < 0 {
		s.Events = append(s.Events, Event{ID: s.LastEventID}.Apply(EndOfTrack(end)))
		s.LastEventID++
		return
	}
	s.Events[eot].Tick = end
}
