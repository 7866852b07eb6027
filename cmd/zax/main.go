// Zax is a terminal Z-machine interpreter for story file versions 1-5, 7, 8.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zaxsoft/zax/config"
	"github.com/zaxsoft/zax/term"
	"github.com/zaxsoft/zax/zmachine"
)

func main() {
	trace := flag.Bool("trace", false, "Log each decoded instruction")
	columns := flag.Int("columns", 0, "Screen columns (overrides zax.toml and the default 80)")
	rows := flag.Int("rows", 0, "Screen rows (overrides zax.toml and the default 24)")
	noConfig := flag.Bool("no-config", false, "Skip searching for a zax.toml file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zax [options] story-file\n\n")
		fmt.Fprintf(os.Stderr, "Runs a Z-machine story file (versions 1-5, 7, 8) in the current terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  zax zork1.z3             # Run a story file directly\n")
		fmt.Fprintf(os.Stderr, "  zax                      # Run the story named in ./zax.toml\n")
		fmt.Fprintf(os.Stderr, "  zax --trace zork1.z3     # Run with instruction tracing on\n")
	}
	flag.Parse()

	cfg, storyPath, err := resolveStory(flag.Args(), *noConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zax: %v\n", err)
		os.Exit(1)
	}
	if *columns > 0 {
		cfg.Screen.Columns = *columns
	}
	if *rows > 0 {
		cfg.Screen.Rows = *rows
	}

	story, err := os.ReadFile(storyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zax: cannot read %s: %v\n", storyPath, err)
		os.Exit(1)
	}

	ui := term.NewTerminal(cfg)
	m := zmachine.NewMachine(ui)
	m.Trace = *trace || cfg.Run.Trace

	if err := m.Load(story); err != nil {
		ui.Fatal(err.Error())
		os.Exit(1)
	}
	if err := m.Run(); err != nil {
		ui.Fatal(err.Error())
		os.Exit(1)
	}
}

// resolveStory decides which story file to run and which configuration to
// use. A path given on the command line always wins; otherwise a zax.toml
// is searched for starting at the current directory, and its story.path is
// used. Either way, the returned *config.Config always has sensible
// defaults filled in, even when no zax.toml was found.
func resolveStory(args []string, noConfig bool) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("cannot determine working directory: %w", err)
	}

	var cfg *config.Config
	if !noConfig {
		cfg, err = config.FindAndLoad(cwd)
		if err != nil {
			return nil, "", err
		}
	}
	if cfg == nil {
		cfg = config.Default(cwd)
	}

	if len(args) > 0 {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("invalid path %q: %w", args[0], err)
		}
		cfg.Story.Path = path
		return cfg, path, nil
	}

	path := cfg.StoryPath()
	if path == "" {
		return nil, "", fmt.Errorf("no story file given and no zax.toml found in %s or any parent directory", cwd)
	}
	return cfg, path, nil
}
