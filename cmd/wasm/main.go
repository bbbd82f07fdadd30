//go:build js && wasm

// Command wasm exposes the metro engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runSimulation(jsonString) -> jsonString
//	trackGeoJSON(jsonString) -> geojsonString
//
// runSimulation takes a SimulationInput and returns a SimulationLog, the same
// contract used by the CLI. trackGeoJSON builds the same world and returns
// its track geometry and initial vehicle positions.
package main

import (
	"syscall/js"

	"github.com/cxd309/metro-engine/internal/config"
	"github.com/cxd309/metro-engine/internal/engine"
	"github.com/cxd309/metro-engine/internal/logging"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	js.Global().Set("trackGeoJSON", js.FuncOf(trackGeoJSON))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func trackGeoJSON(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	input, err := engine.ParseInput([]byte(args[0].String()))
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	w, err := engine.NewWorld(input, config.Defaults(), logging.Nop())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	out, err := w.GeoJSON()
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return string(out)
}
