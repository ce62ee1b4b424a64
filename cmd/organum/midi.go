package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/organum-go/organum"
)

func newMIDICmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "midi FILE",
		Short: "Export a score as a Standard MIDI File",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := a.compile(args[0])
			if err != nil {
				return err
			}
			path := outputPath(args[0], out, ".mid")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := organum.WriteMIDI(f, score); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d voices)\n", path, len(score.Voices))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: FILE with .mid)")
	return cmd
}
