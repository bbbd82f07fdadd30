package engine

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/metro-engine/internal/config"
	"github.com/cxd309/metro-engine/internal/export"
	"github.com/rs/zerolog"
)

// ParseInput decodes a JSON-encoded SimulationInput.
func ParseInput(data []byte) (SimulationInput, error) {
	var input SimulationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return SimulationInput{}, fmt.Errorf("invalid input JSON: %w", err)
	}
	return input, nil
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation with the
// built-in parameters, and returns a JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	return RunJSONWith(jsonInput, config.Defaults(), zerolog.Nop())
}

// RunJSONWith is RunJSON with explicit parameters and logger.
func RunJSONWith(jsonInput string, params config.Params, log zerolog.Logger) (string, error) {
	input, err := ParseInput([]byte(jsonInput))
	if err != nil {
		return "", err
	}

	w, err := NewWorld(input, params, log)
	if err != nil {
		return "", err
	}

	simLog, err := w.Run()
	if err != nil {
		return "", err
	}

	return MarshalLog(simLog)
}

// MarshalLog encodes a SimulationLog as JSON.
func MarshalLog(simLog SimulationLog) (string, error) {
	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}

// GeoJSON renders every built route and the current vehicle positions.
func (w *World) GeoJSON() ([]byte, error) {
	fc := export.Collection(w.network.Routes(), w.Snapshots(), export.DefaultArcStep)
	out, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshaling geojson: %w", err)
	}
	return out, nil
}
