// Package main is the terminal harness for the inkcore editing core.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 1
	}

	a, err := newApp(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer a.Shutdown()

	if err := a.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	ConfigPath   string
	ThemePath    string
	AnnotatePath string
	SessionPath  string
	File         string
}

func parseFlags() (options, bool) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ThemePath, "theme", "", "Path to JSON theme")
	flag.StringVar(&opts.AnnotatePath, "annotate", "", "Path to Lua annotator script")
	flag.StringVar(&opts.SessionPath, "session", "", "Path to session state file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inkpad - terminal harness for the inkcore editing core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkpad [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: ctrl+s save, ctrl+q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file\n")
		flag.Usage()
		return options{}, false
	}
	if flag.NArg() == 1 {
		opts.File = flag.Arg(0)
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultStatePath("config.toml")
	}
	if opts.SessionPath == "" {
		opts.SessionPath = defaultStatePath("session.json")
	}
	return opts, true
}

func defaultStatePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "inkpad", name)
}
