package editor_test

import (
	"testing"
	"time"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/editor"
	"gitlab.com/gomidi/midi/v2"
)

func TestRecordingFields(t *testing.T) {
	var rec editor.Recorder
	rec.HandleMessage(midi.NoteOn(0, 60, 100), 1000)
	rec.HandleMessage(midi.NoteOn(0, 64, 90), 1250)
	rec.HandleMessage(midi.NoteOff(0, 60), 1500)
	rec.HandleMessage(midi.ControlChange(0, 7, 80), 1500)
	rec.HandleMessage(midi.NoteOn(0, 64, 0), 2000)
	take := rec.Take(1, 960)
	if len(take.Messages) != 5 {
		t.Fatalf("take has %d messages, expected 5", len(take.Messages))
	}
	if next := rec.Take(1, 0); len(next.Messages) != 0 {
		t.Errorf("Take did not start a new take")
	}
	// at 120 BPM and 480 ticks per beat, 500 ms is 480 ticks
	fields := take.Fields(120, 480)
	if len(fields) != 3 {
		t.Fatalf("got %d events, expected 3", len(fields))
	}
	var got []rollseq.Event
	for _, f := range fields {
		got = append(got, rollseq.Event{}.Apply(f))
	}
	want := []rollseq.Event{
		rollseq.Event{}.Apply(rollseq.Note(960, 480, 60, 100)),
		rollseq.Event{}.Apply(rollseq.Note(1200, 720, 64, 90)),
		rollseq.Event{}.Apply(rollseq.Controller(1440, 7, 80)),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("event %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestRecordThroughBroker(t *testing.T) {
	broker := editor.NewBroker()
	m, changes := newModel(t)
	var rec editor.Recorder
	rec.HandleMessage(midi.NoteOn(0, 60, 100), 0)
	rec.HandleMessage(midi.NoteOff(0, 60), 500)
	editor.TrySend(broker.ToModel, editor.MsgToModel{Data: rec.Take(1, 0)})
	msg, ok := editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatalf("no message to model")
	}
	m.ProcessMsg(msg)
	if len(*changes) != 1 {
		t.Fatalf("recording gave %d notifications, expected 1", len(*changes))
	}
	tr, _ := m.Track(1).Track()
	found := false
	for _, e := range tr.Events {
		if e.IsNote() && e.Tick == 0 && e.Duration == 480 && e.NoteNumber == 60 {
			found = true
		}
	}
	if !found {
		t.Errorf("recorded note not found in %+v", tr.Events)
	}
}
