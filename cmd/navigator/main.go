// Command navigator is a click-to-move character viewer: click the ground and the character runs
// there, stopping short of obstacles.
//
//	navigator run [-config path] [-env map.glb|file.yaml] [-character model.glb] [-loglevel DEBUG]
//	navigator simulate -dest 5,0,5 [-frames 3600]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"navigator/internal/commands"
	"navigator/internal/engineconfig"
	"navigator/internal/logger"
)

// common holds the flags every subcommand accepts.
type common struct {
	level      logLevelFlag
	configPath string
	env        string
	seed       int64
}

func (c *common) register(fs *flag.FlagSet, defaultLevel slog.Level) {
	c.level.value = defaultLevel
	fs.Var(&c.level, "loglevel", "log level name (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&c.configPath, "config", engineconfig.EngineConfigPath, "path to the YAML config file")
	fs.StringVar(&c.env, "env", "", "environment glTF/GLB or YAML file (default: generated obstacle field)")
	fs.Int64Var(&c.seed, "seed", 0, "seed for the generated obstacle field, 0 for random")
}

// prefs loads the config file, then applies .env and environment variables, then flags.
func (c *common) prefs() (engineconfig.Prefs, error) {
	p, err := engineconfig.Load(c.configPath)
	if err != nil {
		return p, err
	}
	if err := engineconfig.LoadDotEnv(engineconfig.DotEnvPath); err != nil {
		return p, err
	}
	if err := p.ApplyEnv(); err != nil {
		return p, err
	}
	if c.env != "" {
		p.Assets.Environment = c.env
	}
	if c.seed != 0 {
		p.Assets.GenerateSeed = c.seed
	}
	return p, p.Validate()
}

func main() {
	reg := commands.NewRegistry()

	var runFlags common
	runFS := flag.NewFlagSet("run", flag.ExitOnError)
	runFlags.register(runFS, slog.LevelInfo)
	character := runFS.String("character", "", "character model (overrides config)")
	reg.Register("run", "open the viewport", runFS, func() error {
		p, err := runFlags.prefs()
		if err != nil {
			return err
		}
		if *character != "" {
			p.Assets.Character = *character
		}
		lg, err := logger.New(p.LogFile, runFlags.level.value)
		if err != nil {
			return err
		}
		defer lg.Close()
		slog.SetDefault(lg.Slog())
		return runViewport(p, lg)
	})

	var simFlags common
	simFS := flag.NewFlagSet("simulate", flag.ExitOnError)
	simFlags.register(simFS, slog.LevelWarn)
	var dest vecFlag
	dest.value.X, dest.value.Z = 5, 5
	simFS.Var(&dest, "dest", "destination x,y,z")
	frames := simFS.Int("frames", 3600, "frames to simulate")
	reg.Register("simulate", "run headless and print a report", simFS, func() error {
		if *frames <= 0 {
			return fmt.Errorf("-frames must be > 0")
		}
		p, err := simFlags.prefs()
		if err != nil {
			return err
		}
		lg := logger.NewWithWriter(os.Stderr, simFlags.level.value)
		return simulate(p, lg.Slog(), dest.value, *frames, os.Stdout)
	})
	reg.SetDefault("run")

	if len(os.Args) > 1 && (os.Args[1] == "help" || os.Args[1] == "-h" || os.Args[1] == "--help") {
		reg.Usage(os.Stdout, "navigator")
		return
	}
	if err := reg.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "navigator:", err)
		os.Exit(1)
	}
}
