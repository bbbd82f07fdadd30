// Command metro-engine reads a SimulationInput JSON from a file argument (or
// stdin), runs the simulation, and writes the SimulationLog JSON to stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cxd309/metro-engine/internal/config"
	"github.com/cxd309/metro-engine/internal/engine"
	"github.com/cxd309/metro-engine/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	configDir := pflag.String("config", "", "directory containing "+config.FileName)
	logLevel := pflag.String("log-level", "", "log level override (trace, debug, info, warn, error)")
	geojsonPath := pflag.String("geojson", "", "write the final track and vehicle geometry as GeoJSON to this file")
	pflag.Parse()

	var params config.Params
	if *configDir != "" {
		if err := config.Load(*configDir); err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		if *logLevel != "" {
			viper.Set("logLevel", *logLevel)
		}
		p, err := config.Current()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		params = p
	} else {
		params = config.Defaults()
		if *logLevel != "" {
			params.LogLevel = *logLevel
		}
	}
	log := logging.New(os.Stderr, params.LogLevel)

	var (
		data []byte
		err  error
	)
	if pflag.NArg() > 0 {
		data, err = os.ReadFile(pflag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Error().Err(err).Msg("reading input")
		os.Exit(1)
	}

	input, err := engine.ParseInput(data)
	if err != nil {
		log.Error().Err(err).Msg("parsing input")
		os.Exit(1)
	}
	w, err := engine.NewWorld(input, params, log)
	if err != nil {
		log.Error().Err(err).Msg("building world")
		os.Exit(1)
	}
	result, err := w.Run()
	if err != nil {
		log.Error().Err(err).Msg("simulation error")
		os.Exit(1)
	}

	if *geojsonPath != "" {
		gj, err := w.GeoJSON()
		if err == nil {
			err = os.WriteFile(*geojsonPath, gj, 0644)
		}
		if err != nil {
			log.Error().Err(err).Str("path", *geojsonPath).Msg("writing geojson")
			os.Exit(1)
		}
		log.Info().Str("path", *geojsonPath).Msg("geojson written")
	}

	out, err := engine.MarshalLog(result)
	if err != nil {
		log.Error().Err(err).Msg("encoding output")
		os.Exit(1)
	}
	fmt.Println(out)
}
