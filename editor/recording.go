package editor

import (
	"math"
	"sync"

	"github.com/rollseq/rollseq"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type (
	// Recorder collects MIDI messages from an input port. HandleMessage has
	// the signature of the callback of midi.ListenTo, so a Recorder can be
	// attached to a port directly:
	//
	//	stop, err := midi.ListenTo(in, rec.HandleMessage)
	Recorder struct {
		mu       sync.Mutex
		messages []RecordedMessage
	}

	// Recording is a take of recorded messages, to be added to the track at
	// index Track starting at StartTick.
	Recording struct {
		Track     int
		StartTick int
		Messages  []RecordedMessage
	}

	RecordedMessage struct {
		Message midi.Message
		// TimeMs is the time the message was received, in milliseconds
		// since the start of listening.
		TimeMs int32
	}
)

func (r *Recorder) HandleMessage(msg midi.Message, timestampms int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, RecordedMessage{Message: append(midi.Message(nil), msg...), TimeMs: timestampms})
}

// Take returns the messages recorded so far as a Recording and starts a new
// take.
func (r *Recorder) Take(track, startTick int) Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := Recording{Track: track, StartTick: startTick, Messages: r.messages}
	r.messages = nil
	return ret
}

// Fields converts the recording to the fields of new events, timed relative
// to the first recorded message. A note lasts until the next note off (or
// note on with zero velocity) of the same key on the same channel; notes
// still held at the end of the recording last until the last message.
// Messages that do not map to an event are skipped.
func (r *Recording) Fields(bpm float64, timeBase int) []rollseq.Fields {
	if len(r.Messages) == 0 || bpm <= 0 || timeBase <= 0 {
		return nil
	}
	start, last := r.Messages[0].TimeMs, r.Messages[len(r.Messages)-1].TimeMs
	toTick := func(ms int32) int {
		return r.StartTick + msToTick(bpm, timeBase, ms-start)
	}
	var ret []rollseq.Fields
	for i, m := range r.Messages {
		var ch, key, vel uint8
		if m.Message.GetNoteOn(&ch, &key, &vel) {
			if vel == 0 {
				continue
			}
			end := last
			for _, n := range r.Messages[i+1:] {
				if isNoteEnd(n.Message, ch, key) {
					end = n.TimeMs
					break
				}
			}
			tick := toTick(m.TimeMs)
			ret = append(ret, rollseq.Note(tick, toTick(end)-tick, int(key), int(vel)))
			continue
		}
		if f, ok := rollseq.FieldsFromMessage(toTick(m.TimeMs), smf.Message(m.Message)); ok {
			ret = append(ret, f)
		}
	}
	return ret
}

func isNoteEnd(msg midi.Message, channel, key uint8) bool {
	var ch, k, vel uint8
	switch {
	case msg.GetNoteOff(&ch, &k, &vel):
	case msg.GetNoteOn(&ch, &k, &vel) && vel == 0:
	default:
		return false
	}
	return ch == channel && k == key
}

func msToTick(bpm float64, timeBase int, ms int32) int {
	return int(math.Round(float64(ms) / 60000 * bpm * float64(timeBase)))
}
