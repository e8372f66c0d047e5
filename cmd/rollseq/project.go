package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rollseq/rollseq/kv"
	"github.com/rollseq/rollseq/project"
)

func (a *app) projectCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Timestamped project saves (save, list, load, delete)",
		Long: `Keep timestamped saves of songs, grouped by project name.

Saves are stored in a badger database in the project directory of the config,
or in --dir.

Examples:
  rollseq project save demo song.yml --label "verse done"
  rollseq project list demo
  rollseq project load demo -o song.yml
  rollseq project delete demo 01714564800000000000-1a2b3c4d`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "project database directory (overrides the config)")
	open := func() (*project.Store, func(), error) {
		if dir == "" {
			dir = a.cfg.ProjectDir
		}
		if dir == "" {
			return nil, nil, errors.New("no project directory configured")
		}
		db, err := kv.NewBadger(kv.BadgerOptions{Dir: dir, Logger: a.logger})
		if err != nil {
			return nil, nil, err
		}
		return project.NewStore(db), func() {
			if err := db.Close(); err != nil {
				a.logger.Error("could not close project database", "err", err)
			}
		}, nil
	}

	var label string
	save := &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Save a song to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := readSong(args[1])
			if err != nil {
				return err
			}
			s, done, err := open()
			if err != nil {
				return err
			}
			defer done()
			info, err := s.Save(cmd.Context(), args[0], label, song)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.ID)
			return nil
		},
	}
	save.Flags().StringVarP(&label, "label", "l", "", "label of the save")

	list := &cobra.Command{
		Use:   "list [name]",
		Short: "List projects, or the saves of a project newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := open()
			if err != nil {
				return err
			}
			defer done()
			if len(args) == 0 {
				names, err := s.Projects(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}
			saves, err := s.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, save := range saves {
				fmt.Fprintf(w, "%s\t%s\t%s\n", save.ID, save.Timestamp.Format("2006-01-02 15:04:05"), save.Label)
			}
			return w.Flush()
		},
	}

	var output string
	load := &cobra.Command{
		Use:   "load <name> [id]",
		Short: "Write a save to a file; the latest save if no id is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := open()
			if err != nil {
				return err
			}
			defer done()
			var id string
			if len(args) == 2 {
				id = args[1]
			}
			song, err := s.Load(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			return writeSong(output, song)
		},
	}
	load.Flags().StringVarP(&output, "output", "o", "", "output file")
	load.MarkFlagRequired("output")

	del := &cobra.Command{
		Use:   "delete <name> [id]",
		Short: "Delete a save, or the whole project if no id is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := open()
			if err != nil {
				return err
			}
			defer done()
			var id string
			if len(args) == 2 {
				id = args[1]
			}
			return s.Delete(cmd.Context(), args[0], id)
		},
	}

	cmd.AddCommand(save, list, load, del)
	return cmd
}
