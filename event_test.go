package rollseq_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rollseq/rollseq"
	"gopkg.in/yaml.v3"
)

func TestApplyKeepsIDAndMergesExtra(t *testing.T) {
	e := rollseq.Event{ID: 3, Tick: 10, Extra: map[string]any{"a": "1", "b": "2"}}
	got := e.Apply(rollseq.Fields{
		ID:    rollseq.Int(7),
		Tick:  rollseq.Int(20),
		Text:  rollseq.String("hi"),
		Extra: map[string]any{"b": "3"},
	})
	want := rollseq.Event{ID: 3, Tick: 20, Text: "hi", Extra: map[string]any{"a": "1", "b": "3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
	if e.Extra["b"] != "2" {
		t.Errorf("Apply modified the extra fields of the original event")
	}
}

func TestEqual(t *testing.T) {
	a := rollseq.Event{ID: 1, Tick: 2}
	b := rollseq.Event{ID: 1, Tick: 2, Extra: map[string]any{}}
	if !a.Equal(b) {
		t.Errorf("nil and empty extra should be equal")
	}
	b.Extra["x"] = "y"
	if a.Equal(b) {
		t.Errorf("events with different extra fields should not be equal")
	}
	for _, tc := range []struct {
		x, y  any
		equal bool
	}{
		{3, int8(3), true},
		{3, int64(3), true},
		{3, 3.0, true},
		{uint16(7), int32(7), true},
		{0.5, float32(0.5), true},
		{3, 4, false},
		{3, "3", false},
		{[]any{1, map[string]any{"k": 2}}, []any{int8(1), map[string]any{"k": 2.0}}, true},
	} {
		a := rollseq.Event{Extra: map[string]any{"n": tc.x}}
		b := rollseq.Event{Extra: map[string]any{"n": tc.y}}
		if got := a.Equal(b); got != tc.equal {
			t.Errorf("Equal with extra %#v and %#v = %v, expected %v", tc.x, tc.y, got, tc.equal)
		}
	}
}

func TestEventJSONKeepsUnknownFields(t *testing.T) {
	in := `{"id":4,"tick":96,"type":"meta","subtype":"lyrics","text":"la","extraField":{"nested":[1,2]}}`
	var e rollseq.Event
	if err := json.Unmarshal([]byte(in), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.ID != 4 || e.Tick != 96 || e.Subtype != "lyrics" || e.Text != "la" {
		t.Errorf("known fields not decoded: %+v", e)
	}
	if _, ok := e.Extra["extraField"]; !ok || len(e.Extra) != 1 {
		t.Errorf("unknown fields not kept in Extra: %v", e.Extra)
	}
	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var want, got map[string]any
	json.Unmarshal([]byte(in), &want)
	json.Unmarshal(out, &got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEventYAMLKeepsUnknownFields(t *testing.T) {
	in := "id: 2\ntick: 0\ntype: channel\nsubtype: pitchBend\nvalue: 3\nchannelPressure: high\n"
	var e rollseq.Event
	if err := yaml.Unmarshal([]byte(in), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.Value != 3 || e.Extra["channelPressure"] != "high" {
		t.Errorf("decoded %+v", e)
	}
	out, err := yaml.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back rollseq.Event
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(e, back); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}
