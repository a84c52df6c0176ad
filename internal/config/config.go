// SPDX-License-Identifier: EPL-2.0

// Package config loads awgpack project files.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/ik5/awgkit/seqc"
	"github.com/ik5/awgkit/waveform"
)

const (
	DefaultSampleRate = 2_400_000_000
	DefaultOutputDir  = "build"
)

var (
	ErrDeviceType = errors.New("device_type is required")
	ErrSource     = errors.New("waveform needs exactly one of file, shape or script")
	ErrIndex      = errors.New("invalid index")
	ErrDuplicate  = errors.New("duplicate index")
	ErrLength     = errors.New("length must be positive")
	ErrChannels   = errors.New("at most two channels per waveform")
	ErrValue      = errors.New("invalid value")
)

type fileConfig struct {
	DeviceType   string          `toml:"device_type" yaml:"device_type"`
	Target       string          `toml:"target" yaml:"target"`
	MarkerBits   int             `toml:"marker_bits" yaml:"marker_bits"`
	SampleRate   int             `toml:"sample_rate" yaml:"sample_rate"`
	OutputDir    string          `toml:"output_dir" yaml:"output_dir"`
	Waveforms    []Waveform      `toml:"waveform" yaml:"waveform"`
	Commands     []Command       `toml:"command" yaml:"command"`
	CommandTable CommandTableCfg `toml:"command_table" yaml:"command_table"`
}

// Project is a validated project file. Relative paths resolve against the
// file's directory.
type Project struct {
	DeviceType   string
	Target       seqc.Target
	MarkerBits   int
	SampleRate   int
	OutputDir    string
	Waveforms    []Waveform
	Commands     []Command
	CommandTable CommandTableCfg

	dir string
}

// Waveform describes one slot. Exactly one of File, Shape and Script is set.
type Waveform struct {
	Index  int    `toml:"index" yaml:"index"`
	File   string `toml:"file" yaml:"file"`
	Shape  string `toml:"shape" yaml:"shape"`
	Script string `toml:"script" yaml:"script"`
	// Length is required for Shape and Script. A File keeps its own length
	// unless Length is set.
	Length int `toml:"length" yaml:"length"`
	// Mono folds a multi-channel file into channel 1.
	Mono    bool      `toml:"mono" yaml:"mono"`
	Names   []string  `toml:"names" yaml:"names"`
	Outputs [][]int   `toml:"outputs" yaml:"outputs"`
	Marker  *Marker   `toml:"marker" yaml:"marker"`
	Params  ShapeArgs `toml:"params" yaml:"params"`
}

type Marker struct {
	Start  int    `toml:"start" yaml:"start"`
	Length int    `toml:"length" yaml:"length"`
	Value  uint16 `toml:"value" yaml:"value"`
}

// ShapeArgs holds the optional shape parameters. Nil falls back to the
// shape default.
type ShapeArgs struct {
	Amplitude *float64 `toml:"amplitude" yaml:"amplitude"`
	Position  *float64 `toml:"position" yaml:"position"`
	Width     *float64 `toml:"width" yaml:"width"`
	Beta      *float64 `toml:"beta" yaml:"beta"`
	Cycles    *float64 `toml:"cycles" yaml:"cycles"`
	Phase     *float64 `toml:"phase" yaml:"phase"`
}

// Command sets command-table nodes of one entry. Keys are dotted node
// paths such as "amplitude0.value".
type Command struct {
	Index  int            `toml:"index" yaml:"index"`
	Fields map[string]any `toml:"fields" yaml:"fields"`
}

type CommandTableCfg struct {
	UserString string `toml:"user_string" yaml:"user_string"`
	Partial    bool   `toml:"partial" yaml:"partial"`
}

// Load decodes and validates the project at path. Files ending in .yaml
// or .yml are read as YAML, everything else as TOML.
func Load(path string) (*Project, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var (
		raw     fileConfig
		defined func(key string) bool
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		defined, err = decodeYAML(path, &raw)
	default:
		defined, err = decodeTOML(path, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	p := &Project{
		DeviceType:   strings.TrimSpace(raw.DeviceType),
		MarkerBits:   waveform.DefaultMarkerBits,
		SampleRate:   DefaultSampleRate,
		OutputDir:    DefaultOutputDir,
		Waveforms:    raw.Waveforms,
		Commands:     raw.Commands,
		CommandTable: raw.CommandTable,
		dir:          filepath.Dir(path),
	}

	target := raw.Target
	if !defined("target") {
		target = familyTarget(p.DeviceType)
	}
	if p.Target, err = seqc.ParseTarget(target); err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}

	if defined("marker_bits") {
		p.MarkerBits = raw.MarkerBits
	}
	if defined("sample_rate") {
		p.SampleRate = raw.SampleRate
	}
	if defined("output_dir") {
		p.OutputDir = strings.TrimSpace(raw.OutputDir)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func familyTarget(deviceType string) string {
	switch dt := strings.ToLower(deviceType); {
	case strings.HasPrefix(dt, "hdawg"):
		return "hdawg"
	case strings.HasPrefix(dt, "uhf"):
		return "uhf"
	default:
		return "generic"
	}
}

// Validate reports the first problem found.
func (p *Project) Validate() error {
	if p.DeviceType == "" {
		return ErrDeviceType
	}
	if p.MarkerBits < 0 || p.MarkerBits > 8 {
		return fmt.Errorf("%w: marker_bits %d", ErrValue, p.MarkerBits)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrValue, p.SampleRate)
	}
	if p.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrValue)
	}

	seen := make(map[int]bool, len(p.Waveforms))
	for i, w := range p.Waveforms {
		if err := w.validate(p.MarkerBits); err != nil {
			return fmt.Errorf("waveform %d: %w", i, err)
		}
		if seen[w.Index] {
			return fmt.Errorf("waveform %d: %w %d", i, ErrDuplicate, w.Index)
		}
		seen[w.Index] = true
	}

	seen = make(map[int]bool, len(p.Commands))
	for i, c := range p.Commands {
		if c.Index < 0 {
			return fmt.Errorf("command %d: %w %d", i, ErrIndex, c.Index)
		}
		if seen[c.Index] {
			return fmt.Errorf("command %d: %w %d", i, ErrDuplicate, c.Index)
		}
		seen[c.Index] = true
	}

	return nil
}

func (w Waveform) validate(markerBits int) error {
	if w.Index < 0 {
		return fmt.Errorf("%w %d", ErrIndex, w.Index)
	}

	sources := 0
	for _, s := range []string{w.File, w.Shape, w.Script} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return ErrSource
	}

	if w.Length < 0 || (w.File == "" && w.Length == 0) {
		return fmt.Errorf("%w: %d", ErrLength, w.Length)
	}
	if len(w.Names) > 2 || len(w.Outputs) > 2 {
		return ErrChannels
	}
	for _, outs := range w.Outputs {
		for _, o := range outs {
			if o != 1 && o != 2 {
				return fmt.Errorf("%w: output %d", ErrValue, o)
			}
		}
	}
	if w.Marker != nil && int(w.Marker.Value) >= 1<<markerBits {
		return fmt.Errorf("%w: marker value %d exceeds %d bits", ErrValue, w.Marker.Value, markerBits)
	}

	return nil
}

// Path resolves name against the project directory. A leading ~ is the
// user's home directory.
func (p *Project) Path(name string) string {
	if expanded, err := homedir.Expand(name); err == nil {
		name = expanded
	}
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(p.dir, name)
}

// OutputPath resolves a file name inside OutputDir.
func (p *Project) OutputPath(name string) string {
	return filepath.Join(p.Path(p.OutputDir), name)
}

// OutputSet converts the per-channel output list of channel ch (0 based).
func (w Waveform) OutputSet(ch int) waveform.OutputSet {
	if ch >= len(w.Outputs) {
		return waveform.OutputSet{}
	}

	var s waveform.OutputSet
	for _, o := range w.Outputs[ch] {
		s = s.With(waveform.Output(o))
	}

	return s
}

// Name returns the explicit identifier of channel ch, or "".
func (w Waveform) Name(ch int) string {
	if ch >= len(w.Names) {
		return ""
	}

	return w.Names[ch]
}
