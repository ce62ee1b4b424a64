package main

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/organum-go/organum"
	"github.com/organum-go/organum/internal/config"
)

type app struct {
	cfgPath string
	cfg     config.Config
	log     *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:          "organum",
		Short:        "Compile and play hexachord notation",
		Long:         `organum compiles .organum hexachord notation into per-voice scores and renders them as sine-tone audio, MIDI, or live playback.`,
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a.log = log.New(cmd.ErrOrStderr(), "", 0)
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		return nil
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file")
	root.AddCommand(
		newCompileCmd(a),
		newRenderCmd(a),
		newPlayCmd(a),
		newMIDICmd(a),
		newNewCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// compile parses path and reports every diagnostic as path:line: message.
func (a *app) compile(path string) (*organum.Score, error) {
	score, err := organum.Compile(path)
	if err != nil {
		return nil, err
	}
	for _, d := range score.Diagnostics {
		a.log.Printf("%s:%s", path, d)
	}
	return score, nil
}

// outputPath swaps the source extension for ext unless out is set.
func outputPath(src, out, ext string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ext
}
