package editor

import (
	"time"

	"github.com/rollseq/rollseq"
)

type (
	// Broker holds the channels the model uses to talk to the goroutines
	// around it. ToPlayer receives a copy of the song (rollseq.Song) after
	// every change, for a player to schedule; ToModel carries messages for the
	// model, e.g. a finished Recording, to be handled with Model.ProcessMsg on
	// the goroutine driving the UI.
	//
	// Sends never block: if a channel is full, the message is dropped. The
	// player always gets a full copy of the song, so a dropped update is
	// superseded by the next one.
	Broker struct {
		ToPlayer chan rollseq.Song
		ToModel  chan MsgToModel
	}

	// MsgToModel is a message sent to the model. Data can be a Recording, to
	// be added to the track it was recorded on.
	MsgToModel struct {
		Data any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToPlayer: make(chan rollseq.Song, 64),
		ToModel:  make(chan MsgToModel, 1024),
	}
}

// TrySend sends v on c unless c is full, e.g. a song for a player that has
// fallen behind. It never blocks and reports whether v was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
		return true
	default:
		return false
	}
}

// TimeoutReceive waits at most d for a value on c. ok is false on timeout or
// when c is closed.
func TimeoutReceive[T any](c <-chan T, d time.Duration) (v T, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case v, ok = <-c:
	case <-timer.C:
	}
	return v, ok
}
