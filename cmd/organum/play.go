package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/organum-go/organum"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		volume       float64
		voiceStreams bool
	)
	cmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Play a score through the default audio device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := a.compile(args[0])
			if err != nil {
				return err
			}
			opts := []organum.PlayerOption{organum.WithPlayerConfig(a.cfg)}
			if cmd.Flags().Changed("volume") {
				opts = append(opts, organum.WithVolume(volume))
			}
			if cmd.Flags().Changed("voice-streams") {
				opts = append(opts, organum.WithVoiceStreams(voiceStreams))
			}
			pl, err := organum.NewPlayer(opts...)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := pl.Play(score); err != nil {
				return err
			}
			if title := score.Metadata.Title; title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "playing %s\n", title)
			}
			err = pl.Wait(ctx)
			if stopErr := pl.Stop(); stopErr != nil {
				a.log.Printf("stop: %v", stopErr)
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Float64Var(&volume, "volume", 1.0, "master volume scalar")
	cmd.Flags().BoolVar(&voiceStreams, "voice-streams", false, "play each voice on its own stream")
	return cmd
}
