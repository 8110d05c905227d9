//go:build js && wasm

// Command wasm exposes the motion engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runSimulation(jsonInput[, configYAML]) -> jsonLog
//	runSimulationYAML(yamlInput[, configYAML]) -> jsonLog
//
// Both take a SimulationInput and return a SimulationLog, the same contract
// as the CLI. The optional second argument is a motion.yaml document whose
// presets the input may refer to. Failures come back as
// {"error": message}.
package main

import (
	"syscall/js"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/engine"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(func(_ js.Value, args []js.Value) any {
		return run(args, func(in string, opts []engine.Option) (string, error) {
			return engine.RunJSON(in, opts...)
		})
	}))
	js.Global().Set("runSimulationYAML", js.FuncOf(func(_ js.Value, args []js.Value) any {
		return run(args, func(in string, opts []engine.Option) (string, error) {
			return engine.RunYAML([]byte(in), opts...)
		})
	}))
	select {} // keep the WASM module alive until the page is closed
}

func run(args []js.Value, exec func(string, []engine.Option) (string, error)) any {
	if len(args) < 1 {
		return failure("no input provided")
	}

	var opts []engine.Option
	if len(args) > 1 && args[1].Type() == js.TypeString {
		cfg, err := config.Parse([]byte(args[1].String()))
		if err != nil {
			return failure(err.Error())
		}
		opts = append(opts, engine.WithConfig(cfg))
	}

	result, err := exec(args[0].String(), opts)
	if err != nil {
		return failure(err.Error())
	}
	return result
}

func failure(msg string) map[string]any {
	return map[string]any{"error": msg}
}
