// Command motion-engine reads a SimulationInput (JSON or YAML) from a file
// argument (or stdin), runs the simulation, and writes the SimulationLog JSON
// to stdout. Logs go to stderr.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/logging"
)

var (
	configFlag = flag.String("config", "", "Path to a YAML config file (presets, log level)")
	formatFlag = flag.String("format", "auto", "Input format: auto, json, yaml")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	var (
		data []byte
		err  error
		name string
	)
	if flag.NArg() > 0 {
		name = flag.Arg(0)
		data, err = os.ReadFile(name)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	result, err := run(data, inputFormat(*formatFlag, name), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}

func run(data []byte, format string, cfg *config.Config) (string, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return "", err
	}
	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return "", fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.NewSlog(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	opts := []engine.Option{engine.WithConfig(cfg), engine.WithLogger(logger)}

	switch format {
	case "yaml":
		return engine.RunYAML(data, opts...)
	case "json":
		return engine.RunJSON(string(data), opts...)
	}
	return "", fmt.Errorf("unknown input format %q", format)
}

// inputFormat resolves "auto" from the file extension. Stdin defaults to JSON.
func inputFormat(flagValue, name string) string {
	if flagValue != "auto" {
		return strings.ToLower(flagValue)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
