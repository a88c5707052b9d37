package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/pdworld/experiment"
	"github.com/samuelfneumann/pdworld/experiment/checkpointer"
	"github.com/samuelfneumann/pdworld/experiment/trackers"
	ts "github.com/samuelfneumann/pdworld/timestep"
	"github.com/samuelfneumann/pdworld/utils/progressbar"
	"github.com/spf13/cobra"
)

var (
	preset     string
	configPath string
	seed       uint64
	steps      int
	outDir     string
	checkEvery int
	checkNames string
	quiet      bool
)

func main() {
	root := &cobra.Command{
		Use:   "pdworld",
		Short: "Multi-agent Q-learning and SARSA in a pickup and dropoff world",
	}
	root.AddCommand(RunCommand(), PresetsCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// RunCommand returns the command which runs a single experiment
func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an experiment and print its result as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(); err != nil {
				log.Fatalf("run: %v", err)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&preset, "experiment", "e", "1c", "preset experiment to run")
	flags.StringVarP(&configPath, "config", "c", "",
		"JSON experiment config, used instead of the preset")
	flags.Uint64Var(&seed, "seed", 0, "random seed, 0 keeps the configured seed")
	flags.IntVar(&steps, "steps", 0, "number of steps, 0 keeps the configured number")
	flags.StringVarP(&outDir, "out", "o", "",
		"directory for the result, tracked data, and checkpoints")
	flags.IntVar(&checkEvery, "checkpoint", 0,
		"checkpoint the agents every n steps, requires --out")
	flags.StringVar(&checkNames, "checkpoint-names", "step",
		"checkpoint file suffix, one of step (a counter) or time")
	flags.BoolVarP(&quiet, "quiet", "q", false, "do not display progress")
	return cmd
}

// PresetsCommand returns the command which lists the preset experiments
func PresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset experiments",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.PresetNames() {
				c, err := experiment.Preset(name)
				if err != nil {
					log.Fatalf("presets: %v", err)
				}
				fmt.Printf("%-3v learner: %-10v policy: %-8v α: %v  γ: %v  "+
					"schedule events: %d\n", name, c.Learner, c.Policy,
					c.Agent.LearningRate, c.Agent.Discount, len(c.Schedule))
			}
		},
	}
}

func run() error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	o, err := experiment.NewOnline(c)
	if err != nil {
		return err
	}
	log.Printf("run %v: experiment %q, %v with %v policy, %d agents, "+
		"%d steps, seed %d", o.RunID(), c.Name, c.Learner, c.Policy,
		len(c.Starts), c.Steps, c.Seed)

	if !quiet {
		o.Register(newProgress(c.Steps))
	}
	if outDir != "" {
		if err := register(o, c); err != nil {
			return err
		}
	} else if checkEvery > 0 {
		return fmt.Errorf("--checkpoint requires --out")
	}

	result, err := o.Run()
	if err != nil {
		return err
	}
	if err := o.Save(); err != nil {
		return err
	}
	log.Printf("run %v: %d steps, %d terminal states, stopped early: %v, "+
		"mean reward per agent: %.2f", result.RunID, result.Steps,
		result.Terminals, result.Stopped, result.MeanReward())

	out := os.Stdout
	if outDir != "" {
		file, err := os.Create(filepath.Join(outDir, "result.json"))
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func loadConfig() (experiment.Config, error) {
	var c experiment.Config
	var err error
	if configPath != "" {
		c, err = experiment.LoadConfig(configPath)
	} else {
		c, err = experiment.Preset(preset)
	}
	if err != nil {
		return experiment.Config{}, err
	}

	if seed != 0 {
		c.Seed = seed
	}
	if steps != 0 {
		c.Steps = steps
	}
	return c, c.Validate()
}

// register adds the file trackers and checkpointers writing to outDir
func register(o *experiment.Online, c experiment.Config) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	o.Register(trackers.NewReturn(filepath.Join(outDir, "return.bin")))
	o.Register(trackers.NewEpisodeLength(filepath.Join(outDir, "length.bin")))
	o.Register(trackers.NewSQLite(filepath.Join(outDir, "runs.db"), o.RunID(),
		c.Name))

	if checkEvery <= 0 {
		return nil
	}
	for _, a := range o.Agents() {
		name := filepath.Join(outDir, fmt.Sprintf("agent%d", a.ID()))
		filenames, err := checkpointFilenames(checkNames, name)
		if err != nil {
			return err
		}
		check, err := checkpointer.NewNStep(checkEvery, a, filenames)
		if err != nil {
			return err
		}
		o.RegisterCheckpointer(check)
	}
	return nil
}

// checkpointFilenames returns the checkpoint filename generator for
// the --checkpoint-names kind
func checkpointFilenames(kind, name string) (func() string, error) {
	switch kind {
	case "step":
		return checkpointer.FilenameEnumerator(0, name+"-", ".bin"), nil
	case "time":
		return checkpointer.FileTimer(name, ".bin", nil), nil
	}
	return nil, fmt.Errorf("unknown checkpoint names %q, want step or time",
		kind)
}

// progress displays a progress bar on stderr as steps are tracked
type progress struct {
	bar *progressbar.ManualProgressBar
}

func newProgress(steps int) *progress {
	return &progress{bar: progressbar.NewManualProgressBar(os.Stderr, 50, steps)}
}

func (p *progress) Track(t ts.TimeStep) {
	if t.Agent != 0 {
		return
	}
	p.bar.Increment()
	if t.Number%100 == 0 || t.Last() {
		p.bar.Display()
	}
}

func (p *progress) Save() error {
	p.bar.Display()
	p.bar.Close()
	return nil
}
