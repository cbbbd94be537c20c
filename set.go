package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"techno-machine/arrangement"
	"techno-machine/config"
	"techno-machine/style"
)

var (
	setSongs  int
	setBars   int
	setOutput string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create and inspect set files",
	Long: `Sets are YAML files listing songs in play order. Each song names one
style, or four styles for the timeline, foundation, groove and lead roles.

Subcommands:
  generate  Write a random set
  show      Print a set
  styles    List the style names`,
}

var setGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a random set",
	Long: `Generate a random set from the seed and write it as YAML.

Examples:
  techno-machine set generate -n 12 -o friday.yaml
  techno-machine set generate --bars 64 --seed 3`,
	RunE: runSetGenerate,
}

var setShowCmd = &cobra.Command{
	Use:   "show <set.yaml>",
	Short: "Print a set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetShow,
}

var setStylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the style names",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range style.Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	setCmd.AddCommand(setGenerateCmd)
	setCmd.AddCommand(setShowCmd)
	setCmd.AddCommand(setStylesCmd)

	setGenerateCmd.Flags().IntVarP(&setSongs, "songs", "n", arrangement.DefaultSetSize, "Number of songs")
	setGenerateCmd.Flags().IntVar(&setBars, "bars", 0, "Bars per song (0 = random length)")
	setGenerateCmd.Flags().StringVarP(&setOutput, "output", "o", "", "Output file (default: stdout)")
}

func runSetGenerate(cmd *cobra.Command, args []string) error {
	if setSongs < 1 {
		return fmt.Errorf("--songs must be at least 1")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sm := arrangement.NewSongManager(cfg.Seed)
	sm.GenerateRandomSet(setSongs, setBars)
	if setOutput == "" {
		return config.WriteSet(os.Stdout, "random", sm.Songs())
	}
	if err := config.SaveSet(setOutput, sm.Songs()); err != nil {
		return err
	}
	fmt.Printf("Wrote %d songs to %s\n", setSongs, setOutput)
	return nil
}

func runSetShow(cmd *cobra.Command, args []string) error {
	songs, err := config.LoadSet(args[0])
	if err != nil {
		return err
	}
	total := 0
	for i, s := range songs {
		fmt.Printf("%2d  %-40s  %4d bars  var %.2f  energy %.2f\n",
			i+1, s.Styles, s.Bars, s.Variation, s.Energy)
		total += s.Bars
	}
	fmt.Printf("%d songs, %d bars\n", len(songs), total)
	return nil
}
