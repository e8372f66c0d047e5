package rollseq_test

import (
	"testing"

	"github.com/rollseq/rollseq"
)

func TestTempo(t *testing.T) {
	var tr rollseq.Track
	if _, ok := tr.Tempo(0); ok {
		t.Errorf("empty track has a tempo")
	}
	if tr.SetTempo(0, 100) {
		t.Errorf("SetTempo without a tempo event returned true")
	}
	if len(tr.Events) != 0 {
		t.Errorf("SetTempo without a tempo event added events")
	}
	tr.AddEvent(rollseq.SetTempo(0, 500000))
	if bpm, ok := tr.Tempo(10); !ok || bpm != 120 {
		t.Errorf("Tempo(10) = %v, %v; expected 120, true", bpm, ok)
	}
	tr.AddEvent(rollseq.SetTempo(960, 400000))
	if bpm, _ := tr.Tempo(959); bpm != 120 {
		t.Errorf("Tempo(959) = %v, expected 120", bpm)
	}
	if bpm, _ := tr.Tempo(960); bpm != 150 {
		t.Errorf("Tempo(960) = %v, expected 150", bpm)
	}
	if !tr.SetTempo(2000, 100) {
		t.Fatalf("SetTempo returned false")
	}
	if e, _ := tr.TempoEvent(2000); e.MicrosecondsPerBeat != 600000 || e.Tick != 960 {
		t.Errorf("SetTempo changed the wrong event: %+v", e)
	}
	if bpm, _ := tr.Tempo(0); bpm != 120 {
		t.Errorf("SetTempo changed the tempo before the event, got %v", bpm)
	}
}

func TestLastEventAtTickWins(t *testing.T) {
	var tr rollseq.Track
	tr.AddEvents([]rollseq.Fields{
		rollseq.Controller(10, rollseq.VolumeController, 50),
		rollseq.Controller(10, rollseq.VolumeController, 60),
	})
	tr.AddEvent(rollseq.Controller(10, rollseq.VolumeController, 70))
	if v, _ := tr.Volume(10); v != 70 {
		t.Errorf("Volume(10) = %d, expected the last added value 70", v)
	}
	if _, ok := tr.Volume(9); ok {
		t.Errorf("Volume(9) is defined before the first volume event")
	}
}

func TestSetControllerValue(t *testing.T) {
	var tr rollseq.Track
	if !tr.SetPan(100, 30) {
		t.Fatalf("SetPan returned false")
	}
	for _, tick := range []int{0, 100, 1000} {
		if v, ok := tr.Pan(tick); !ok || v != 30 {
			t.Errorf("Pan(%d) = %d, %v; expected 30, true", tick, v, ok)
		}
	}
	tr.AddEvent(rollseq.Controller(200, rollseq.PanController, 90))
	tr.SetPan(150, 40)
	if v, _ := tr.Pan(0); v != 40 {
		t.Errorf("Pan(0) = %d, expected 40", v)
	}
	if v, _ := tr.Pan(300); v != 90 {
		t.Errorf("Pan(300) = %d, expected 90", v)
	}
	if _, ok := tr.Volume(0); ok {
		t.Errorf("setting pan defined the volume")
	}
}

func TestSingletonProperties(t *testing.T) {
	tr := rollseq.Track{Channel: rollseq.Int(2)}
	if tr.SetName("x") || tr.SetProgramNumber(3) {
		t.Errorf("setting a property without an event returned true")
	}
	if got := tr.DisplayName(); got != "Track 2" {
		t.Errorf("DisplayName() = %q", got)
	}
	tr.AddEvents([]rollseq.Fields{
		rollseq.TrackName(0, "Old"),
		rollseq.TrackName(5, "Bass"),
		rollseq.ProgramChange(0, 33),
	})
	if name, _ := tr.Name(); name != "Bass" {
		t.Errorf("Name() = %q, expected the last one", name)
	}
	tr.SetName("Lead")
	if name, _ := tr.Name(); name != "Lead" {
		t.Errorf("Name() after SetName = %q", name)
	}
	if got := tr.DisplayName(); got != "Lead" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got, _ := tr.InstrumentName(); got != "Electric Bass (finger)" {
		t.Errorf("InstrumentName() = %q", got)
	}
	tr.SetProgramNumber(0)
	if got, _ := tr.InstrumentName(); got != "Acoustic Grand Piano" {
		t.Errorf("InstrumentName() = %q", got)
	}
}

func TestTrackKinds(t *testing.T) {
	var conductor rollseq.Track
	drums := rollseq.Track{Channel: rollseq.Int(rollseq.RhythmChannel)}
	if !conductor.IsConductorTrack() || conductor.IsRhythmTrack() {
		t.Errorf("track without a channel should be the conductor track")
	}
	if drums.IsConductorTrack() || !drums.IsRhythmTrack() {
		t.Errorf("channel 9 should be the rhythm track")
	}
	if got, _ := drums.InstrumentName(); got != "Standard Drum Kit" {
		t.Errorf("InstrumentName() = %q", got)
	}
	if got := conductor.DisplayName(); got != "Conductor" {
		t.Errorf("DisplayName() = %q", got)
	}
}

func TestTimeSignatureEvent(t *testing.T) {
	var tr rollseq.Track
	tr.AddEvents([]rollseq.Fields{rollseq.TimeSignature(0, 4, 4), rollseq.TimeSignature(1920, 3, 4)})
	e, ok := tr.TimeSignatureEvent(1919)
	if !ok || e.Numerator != 4 {
		t.Errorf("TimeSignatureEvent(1919) = %+v, %v", e, ok)
	}
	if e, _ := tr.TimeSignatureEvent(5000); e.Numerator != 3 || e.Denominator != 4 {
		t.Errorf("TimeSignatureEvent(5000) = %+v", e)
	}
}

func TestTrackCopyIsDeep(t *testing.T) {
	tr := rollseq.Track{Channel: rollseq.Int(1)}
	tr.AddEvent(rollseq.Fields{Tick: rollseq.Int(0), Extra: map[string]any{"port": "a"}})
	c := tr.Copy()
	*c.Channel = 5
	c.Events[0].Extra["port"] = "b"
	c.UpdateEvent(c.Events[0].ID, rollseq.Fields{Tick: rollseq.Int(50)})
	if *tr.Channel != 1 || tr.Events[0].Extra["port"] != "a" || tr.Events[0].Tick != 0 {
		t.Errorf("modifying the copy modified the original: %+v", tr)
	}
}
