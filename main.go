package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"techno-machine/arrangement"
	"techno-machine/config"
	"techno-machine/debug"
	"techno-machine/sequencer"
)

var version = "0.1.0"

var (
	configPath string
	setPath    string
	seed       uint64
	debugLog   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "techno-machine",
	Short: "Generative techno rhythm machine",
	Long: `techno-machine generates eight-voice drum patterns from a catalog of
rhythmic styles, plays them through two crossfaded decks and DJs a set of
songs on its own. Voices go out over MIDI to a drum machine.

Running without a subcommand starts the live player.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runPlay,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugLog {
			return debug.Enable("")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/techno-machine/config.json)")
	rootCmd.PersistentFlags().StringVarP(&setPath, "set", "s", "", "YAML set file to play instead of a random set")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed (0 = from config)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log to ~/.config/techno-machine/debug.log")

	addPlayFlags(rootCmd)
	addPlayFlags(playCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(portsCmd)
}

// loadConfig reads the config file and applies the global overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func optionsFrom(cfg *config.Config) sequencer.Options {
	opts := sequencer.DefaultOptions()
	opts.Seed = cfg.Seed
	opts.SampleRate = cfg.SampleRate
	opts.Tempo = cfg.Tempo
	opts.SwingLevel = cfg.SwingLevel
	opts.FillInterval = cfg.FillInterval
	opts.TransitionBars = cfg.TransitionBars
	opts.PhraseLength = cfg.PhraseLength
	opts.SweepEnabled = cfg.FilterSweep
	opts.SweepBars = cfg.SweepBars
	opts.SongCount = cfg.SongCount
	opts.SongBars = cfg.SongBars
	opts.Manual = cfg.ManualTrigger
	opts.AutoDJ = cfg.AutoDJ
	opts.BuildupBars = cfg.BuildupBars
	return opts
}

// loadSet returns the songs of the --set file, or nil when none was given.
func loadSet() ([]arrangement.Song, error) {
	if setPath == "" {
		return nil, nil
	}
	songs, err := config.LoadSet(setPath)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("set %s has no songs", setPath)
	}
	return songs, nil
}
