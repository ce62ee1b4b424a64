package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/organum-go/organum/internal/scaffold"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		dir  string
		opts scaffold.Options
	)
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a new .organum file from the skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scaffold.Create(dir, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to create the file in")
	cmd.Flags().StringVar(&opts.Title, "title", "", "score title (default: NAME)")
	cmd.Flags().StringVar(&opts.Composer, "composer", "", "composer name")
	cmd.Flags().IntVar(&opts.Voices, "voices", 1, "number of voice blocks")
	return cmd
}
