package rollseq

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the complete state of a Song encoded as msgpack. Snapshots are
// self-contained: decoding one gives a song equal to the one it was taken
// from, sharing no memory with it.
type Snapshot []byte

// Snapshot encodes the song.
func (s *Song) Snapshot() (Snapshot, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("could not encode snapshot: %w", err)
	}
	return b, nil
}

// Song decodes the snapshot. Numbers in Extra are decoded as int64 or
// float64, whatever their size.
func (s Snapshot) Song() (Song, error) {
	var song Song
	dec := msgpack.NewDecoder(bytes.NewReader(s))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&song); err != nil {
		return Song{}, fmt.Errorf("could not decode snapshot: %w", err)
	}
	return song, nil
}
