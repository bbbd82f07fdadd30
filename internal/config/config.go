// Package config loads simulation parameters through viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "metro.cfg.json"

// VehicleConfig holds the default vehicle motion settings.
type VehicleConfig struct {
	MaxSpeed     float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	Acceleration float64 `json:"acceleration" mapstructure:"acceleration"`
	DwellTime    float64 `json:"dwellTime" mapstructure:"dwellTime"`
	Creep        float64 `json:"creep" mapstructure:"creep"`
	RampLength   float64 `json:"rampLength" mapstructure:"rampLength"`
	TurnRate     float64 `json:"turnRate" mapstructure:"turnRate"`
}

// TrackConfig holds the track construction settings.
type TrackConfig struct {
	Width        float64 `json:"width" mapstructure:"width"`
	Gap          float64 `json:"gap" mapstructure:"gap"`
	TerminalStub float64 `json:"terminalStub" mapstructure:"terminalStub"`
}

// StationConfig holds station sizing.
type StationConfig struct {
	Scale float64 `json:"scale" mapstructure:"scale"`
}

// SimConfig holds the frame clock used when the input does not set one.
type SimConfig struct {
	TimeStep float64 `json:"timeStep" mapstructure:"timeStep"`
	RunTime  float64 `json:"runTime" mapstructure:"runTime"`
}

// Params is the typed view of every setting.
type Params struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Vehicle  VehicleConfig `json:"vehicle" mapstructure:"vehicle"`
	Track    TrackConfig   `json:"track" mapstructure:"track"`
	Station  StationConfig `json:"station" mapstructure:"station"`
	Sim      SimConfig     `json:"sim" mapstructure:"sim"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("vehicle.maxSpeed", 200.0)
	v.SetDefault("vehicle.acceleration", 0.25)
	v.SetDefault("vehicle.dwellTime", 1.0)
	v.SetDefault("vehicle.creep", 0.05)
	v.SetDefault("vehicle.rampLength", 50.0)
	v.SetDefault("vehicle.turnRate", 8.0)

	v.SetDefault("track.width", 6.0)
	v.SetDefault("track.gap", 2.0)
	v.SetDefault("track.terminalStub", 50.0)

	v.SetDefault("station.scale", 15.0)

	v.SetDefault("sim.timeStep", 1.0/60)
	v.SetDefault("sim.runTime", 10.0)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults(viper.GetViper())

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Current returns the parameters held by the global viper instance.
func Current() (Params, error) {
	setDefaults(viper.GetViper())
	return decode(viper.GetViper())
}

// Defaults returns the built-in parameters without touching any file or the
// global viper instance.
func Defaults() Params {
	v := viper.New()
	setDefaults(v)
	p, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return p
}

func decode(v *viper.Viper) (Params, error) {
	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("decoding config: %w", err)
	}
	return p, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
