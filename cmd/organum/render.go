package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/organum-go/organum"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out      string
		bitDepth int
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a score to a mono WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := a.compile(args[0])
			if err != nil {
				return err
			}
			mixed, err := organum.Render(score, organum.WithConfig(a.cfg))
			if err != nil {
				return err
			}
			path := outputPath(args[0], out, ".wav")
			if bitDepth == 32 {
				err = os.WriteFile(path, organum.EncodeWAVFloat32LE(mixed, a.cfg.SampleRate, 1), 0o644)
			} else {
				err = writePCM(path, mixed, a.cfg.SampleRate, bitDepth)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2fs)\n", path, float64(len(mixed))/float64(a.cfg.SampleRate))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: FILE with .wav)")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", 16, "16 or 24 bit PCM, or 32 for float")
	return cmd
}

func writePCM(path string, samples []float32, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := organum.WriteWAV(f, samples, sampleRate, bitDepth); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
