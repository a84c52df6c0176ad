// SPDX-License-Identifier: EPL-2.0

package seqc

import (
	"errors"
	"strings"
	"testing"

	"github.com/ik5/awgkit/waveform"
)

func zeros(n int) []float64 { return make([]float64, n) }

func TestGenerate_OrderIndependentOfInsertion(t *testing.T) {
	t.Parallel()

	table := waveform.NewTable()
	if err := table.SetArrays(2, zeros(64), zeros(64), nil); err != nil {
		t.Fatal(err)
	}
	if err := table.SetArrays(0, zeros(1008), zeros(1008), make([]uint16, 1008)); err != nil {
		t.Fatal(err)
	}

	s, err := Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(s.Declarations) != 2 {
		t.Fatalf("declarations = %d, want 2", len(s.Declarations))
	}
	if s.Declarations[0].Index != 0 || s.Declarations[1].Index != 2 {
		t.Errorf("order = %d, %d", s.Declarations[0].Index, s.Declarations[1].Index)
	}
	if s.Declarations[0].Length != 1008 || s.Declarations[1].Length != 64 {
		t.Errorf("lengths = %d, %d", s.Declarations[0].Length, s.Declarations[1].Length)
	}

	src := s.String()
	if got := strings.Count(src, "assignWaveIndex("); got != 2 {
		t.Errorf("assignWaveIndex count = %d, want 2", got)
	}
	if strings.Index(src, "waveform 0") > strings.Index(src, "waveform 2") {
		t.Error("index 2 rendered before index 0")
	}
	if table.Len() != 2 {
		t.Error("Generate modified the table")
	}
}

func TestGenerate_Rendering(t *testing.T) {
	t.Parallel()

	w1, _ := waveform.NewWave(zeros(32), waveform.WithName("drive_i"), waveform.WithOutputs(waveform.Outputs(waveform.Out1, waveform.Out2)))
	w2, _ := waveform.NewWave(zeros(32))

	table := waveform.NewTable()
	if err := table.SetWaves(3, w1, w2, make([]uint16, 32)); err != nil {
		t.Fatal(err)
	}

	s, err := Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := "wave drive_i = placeholder(32);\n" +
		"wave w3_2 = placeholder(32, true);\n" +
		"assignWaveIndex(1+2, drive_i, 2, w3_2, 3);\n"
	if got := s.Declarations[0].String(); got != want {
		t.Errorf("declaration =\n%s\nwant\n%s", got, want)
	}

	if idx, ok := s.Index("drive_i"); !ok || idx != 3 {
		t.Errorf("Index(drive_i) = %d, %v", idx, ok)
	}
	if idx, ok := s.Index("w3_2"); !ok || idx != 3 {
		t.Errorf("Index(w3_2) = %d, %v", idx, ok)
	}
}

func TestGenerate_SingleChannel(t *testing.T) {
	t.Parallel()

	table := waveform.NewTable()
	_ = table.SetArrays(1, zeros(16), nil, nil)

	s, err := Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := "wave w1_1 = placeholder(16);\nassignWaveIndex(1, w1_1, 1);\n"
	if got := s.Declarations[0].String(); got != want {
		t.Errorf("declaration = %q, want %q", got, want)
	}
}

func TestGenerate_NameCollision(t *testing.T) {
	t.Parallel()

	a, _ := waveform.NewWave(zeros(16), waveform.WithName("pulse"))
	b, _ := waveform.NewWave(zeros(16), waveform.WithName("pulse"))

	table := waveform.NewTable()
	_ = table.SetWaves(0, a, nil, nil)
	_ = table.SetWaves(4, b, nil, nil)

	_, err := Generate(table)
	if !errors.Is(err, ErrNameCollision) {
		t.Fatalf("Generate() error = %v, want ErrNameCollision", err)
	}

	var nc *NameCollisionError
	if !errors.As(err, &nc) || nc.First != 0 || nc.Second != 4 || nc.Name != "pulse" {
		t.Errorf("collision = %+v", nc)
	}
}

func TestGenerate_GeneratedNamesAvoidExplicit(t *testing.T) {
	t.Parallel()

	a, _ := waveform.NewWave(zeros(16), waveform.WithName("w1_1"))

	table := waveform.NewTable()
	_ = table.SetWaves(0, a, nil, nil)
	_ = table.SetArrays(1, zeros(16), nil, nil)

	s, err := Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := s.Names(1); len(got) != 1 || got[0] != "w1_1_" {
		t.Errorf("Names(1) = %v, want [w1_1_]", got)
	}
}

func TestGenerate_InvalidName(t *testing.T) {
	t.Parallel()

	a, _ := waveform.NewWave(zeros(16), waveform.WithName("1bad name"))
	table := waveform.NewTable()
	_ = table.SetWaves(0, a, nil, nil)

	if _, err := Generate(table); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Generate() error = %v, want ErrInvalidName", err)
	}
}

func TestGenerate_TargetLengthRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target Target
		length int
		want   error
	}{
		{name: "hdawg ok", target: HDAWG, length: 1008},
		{name: "hdawg too short", target: HDAWG, length: 16, want: ErrTooShort},
		{name: "hdawg granularity", target: HDAWG, length: 40, want: ErrGranularity},
		{name: "uhf ok", target: UHF, length: 24},
		{name: "uhf granularity", target: UHF, length: 20, want: ErrGranularity},
		{name: "generic anything", target: Generic, length: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := waveform.NewTable()
			_ = table.SetArrays(0, zeros(tt.length), nil, nil)

			_, err := Generator{Target: tt.target}.Generate(table)
			if tt.want == nil && err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Target{"": Generic, "HDAWG": HDAWG, "uhfqa": UHF} {
		got, err := ParseTarget(in)
		if err != nil || got != want {
			t.Errorf("ParseTarget(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTarget("shfqa"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("ParseTarget(shfqa) error = %v", err)
	}
}
