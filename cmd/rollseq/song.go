package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/editor"
	"github.com/rollseq/rollseq/report"
)

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <file>",
		Short: "Write a new song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song := rollseq.NewSong()
			song.TimeBase = a.cfg.TimeBase
			return writeSong(args[0], song)
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	var format, templates string
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a song",
		Long: `Print the tracks of a song with their instruments and event counts.

The output is rendered with text templates; --templates loads custom ones
(files named summary.<format>) instead of the built in txt and md formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := readSong(args[0])
			if err != nil {
				return err
			}
			var r *report.Reporter
			if templates != "" {
				r, err = report.NewFromTemplates(templates)
			} else {
				r, err = report.New()
			}
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			return r.Write(cmd.OutOrStdout(), format, name, &song)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "txt", "output format")
	cmd.Flags().StringVar(&templates, "templates", "", "glob pattern of custom report templates")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a song between YAML and JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := editor.NewModel(nil, editor.Config{MaxHistory: a.cfg.MaxHistory, Logger: a.logger})
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			if err := m.ReadSong(in); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := m.WriteSong(out, editor.FormatForPath(args[1])); err != nil {
				return err
			}
			a.logger.Info("converted song", "from", args[0], "to", args[1], "tracks", m.TrackCount())
			return nil
		},
	}
}

func readSong(path string) (rollseq.Song, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return rollseq.Song{}, err
	}
	song, err := editor.DecodeSong(b)
	if err != nil {
		return rollseq.Song{}, fmt.Errorf("%s: %w", path, err)
	}
	return song, nil
}

func writeSong(path string, song rollseq.Song) error {
	b, err := editor.EncodeSong(song, editor.FormatForPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
