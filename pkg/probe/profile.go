package probe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile fixes the naming conventions, device models, and timing literals a
// simulation campaign runs under. Passing it explicitly (rather than reading
// package globals) lets several profiles coexist in one process.
type Profile struct {
	// NMOSModel and PMOSModel name the transistor models used for probe
	// inverters and injection-point pull devices.
	NMOSModel string `yaml:"nmos_model"`
	PMOSModel string `yaml:"pmos_model"`

	// TriggerTime is the simulation instant after which transitions count
	// as diagnostic.
	TriggerTime float64 `yaml:"trigger_time"`
	// PulseTiming is the injection pulse spec: delay, rise, fall, duration.
	PulseTiming string `yaml:"pulse_timing"`
	// LogicMargin is the voltage offset from a rail that still counts as a
	// confident logic level.
	LogicMargin float64 `yaml:"logic_margin"`

	// Node and measurement naming conventions.
	ObserveSuffix      string `yaml:"observe_suffix"`
	InverterSuffix     string `yaml:"inverter_suffix"`
	PullUpGateSuffix   string `yaml:"pull_up_gate_suffix"`
	PullDownGateSuffix string `yaml:"pull_down_gate_suffix"`
}

// DefaultProfile returns the conventional 3.3 V small-signal FET setup.
func DefaultProfile() Profile {
	return Profile{
		NMOSModel:          "BSS123",
		PMOSModel:          "BSS84",
		TriggerTime:        10e-9,
		PulseTiming:        "10n 10n 10n 1u",
		LogicMargin:        0.1,
		ObserveSuffix:      "_OBSERVE",
		InverterSuffix:     "_INVERTER",
		PullUpGateSuffix:   "_INJ_TRIG_UP",
		PullDownGateSuffix: "_INJ_TRIG_DOWN",
	}
}

// Validate fills empty fields from the defaults and rejects unusable timing
// values.
func (p *Profile) Validate() error {
	def := DefaultProfile()
	if p.NMOSModel == "" {
		p.NMOSModel = def.NMOSModel
	}
	if p.PMOSModel == "" {
		p.PMOSModel = def.PMOSModel
	}
	if p.TriggerTime == 0 {
		p.TriggerTime = def.TriggerTime
	}
	if p.PulseTiming == "" {
		p.PulseTiming = def.PulseTiming
	}
	if p.LogicMargin == 0 {
		p.LogicMargin = def.LogicMargin
	}
	if p.ObserveSuffix == "" {
		p.ObserveSuffix = def.ObserveSuffix
	}
	if p.InverterSuffix == "" {
		p.InverterSuffix = def.InverterSuffix
	}
	if p.PullUpGateSuffix == "" {
		p.PullUpGateSuffix = def.PullUpGateSuffix
	}
	if p.PullDownGateSuffix == "" {
		p.PullDownGateSuffix = def.PullDownGateSuffix
	}

	if p.TriggerTime < 0 {
		return fmt.Errorf("probe: trigger time %g is negative", p.TriggerTime)
	}
	if p.LogicMargin < 0 {
		return fmt.Errorf("probe: logic margin %g is negative", p.LogicMargin)
	}
	return nil
}

// LoadProfile reads a profile from a YAML file and validates it.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("probe: read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("probe: parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
