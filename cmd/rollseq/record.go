package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rollseq/rollseq/editor"
)

func (a *app) recordCmd() *cobra.Command {
	var (
		input      string
		track      int
		startTick  int
		duration   time.Duration
		listInputs bool
	)
	cmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Record from a MIDI input into a track of a song",
		Long: `Record notes and controller changes from a MIDI input port and add
them to a track of the song, starting at --at. Recording stops after --for,
or on interrupt. The song file is rewritten in place.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if listInputs {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			midiContext := newMIDIContext()
			defer midiContext.Close()
			if listInputs {
				for in := range midiContext.Inputs {
					fmt.Fprintln(cmd.OutOrStdout(), in.String())
				}
				return nil
			}
			return a.record(cmd.Context(), midiContext, args[0], input, track, startTick, duration)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "prefix of the input port name (default is the first port)")
	cmd.Flags().IntVarP(&track, "track", "t", 1, "index of the track to record into")
	cmd.Flags().IntVar(&startTick, "at", 0, "tick the recording starts at")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop recording after this long (default is until interrupted)")
	cmd.Flags().BoolVar(&listInputs, "list", false, "list the input ports and exit")
	return cmd
}

func (a *app) record(ctx context.Context, midiContext editor.MIDIContext, path, input string, track, startTick int, duration time.Duration) error {
	in, ok := editor.FindInput(midiContext, input)
	if !ok {
		return fmt.Errorf("no MIDI input matching %q", input)
	}
	broker := editor.NewBroker()
	m := editor.NewModel(broker, editor.Config{MaxHistory: a.cfg.MaxHistory, Logger: a.logger})
	cancel := m.Subscribe(func(c editor.Change) {
		a.logger.Debug("model changed", "kind", c.Kind, "track", c.Track)
	})
	defer cancel()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	if err := m.ReadSong(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if track < 0 || track >= m.TrackCount() {
		return fmt.Errorf("%w: %d", editor.ErrNoTrack, track)
	}

	var rec editor.Recorder
	if err := in.Open(rec.HandleMessage); err != nil {
		return err
	}
	a.logger.Info("recording", "input", in.String(), "track", track)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}
	<-ctx.Done()
	if err := in.Close(); err != nil {
		a.logger.Warn("could not close MIDI input", "err", err)
	}

	take := rec.Take(track, startTick)
	if len(take.Messages) == 0 {
		return errors.New("nothing recorded")
	}
	if !editor.TrySend(broker.ToModel, editor.MsgToModel{Data: take}) {
		return errors.New("model queue full")
	}
	msg, ok := editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		return errors.New("recording lost")
	}
	m.ProcessMsg(msg)
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteSong(out, editor.FormatForPath(path)); err != nil {
		return err
	}
	a.logger.Info("recorded", "messages", len(take.Messages), "file", path)
	return nil
}
