// SPDX-License-Identifier: EPL-2.0

package awg

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/awgkit/commandtable"
	"github.com/ik5/awgkit/nodestore"
	"github.com/ik5/awgkit/waveform"
)

const root = "/dev8000/awgs/0"

const descriptors = `{"waveforms": [
	{"name": "w0", "length": 32, "channels": 2, "marker_bits": "1;0"},
	{"name": "__filler_1", "length": 32, "channels": 1, "marker_bits": "0"},
	{"name": "w2", "length": "64", "channels": "1", "marker_bits": "0"}
]}`

func device(t *testing.T) (*Core, *nodestore.Store) {
	t.Helper()

	s := nodestore.NewAWG(root)
	if err := s.Seed(root+"/waveform/descriptors", []byte(descriptors)); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	return New(s, root, "HDAWG8"), s
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func waves(s *nodestore.Store) []string {
	var out []string
	for _, p := range s.Paths() {
		if strings.Contains(p, "/waveform/waves/") {
			out = append(out, p)
		}
	}

	return out
}

func TestCore_WriteReadWaveformMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, s := device(t)

	table := waveform.NewTable()
	markers := make([]uint16, 16)
	markers[0] = 0b1010
	if err := table.SetArrays(0, fill(16, 0.5), fill(16, -0.25), markers); err != nil {
		t.Fatalf("SetArrays(0) error = %v", err)
	}
	if err := table.SetArrays(2, fill(40, 1), nil, nil); err != nil {
		t.Fatalf("SetArrays(2) error = %v", err)
	}

	if err := core.WriteWaveformMemory(ctx, table, WriteOptions{Validate: true}); err != nil {
		t.Fatalf("WriteWaveformMemory() error = %v", err)
	}

	for path, size := range map[string]int{root + "/waveform/waves/0": 32 * 2 * 2, root + "/waveform/waves/2": 64 * 2} {
		b, err := s.GetVector(ctx, path)
		if err != nil {
			t.Fatalf("GetVector(%s) error = %v", path, err)
		}
		if len(b) != size {
			t.Errorf("%s holds %d bytes, want %d", path, len(b), size)
		}
	}

	back, err := core.ReadWaveformMemory(ctx, nil)
	if err != nil {
		t.Fatalf("ReadWaveformMemory() error = %v", err)
	}
	if got := back.Indexes(); !slices.Equal(got, []int{0, 2}) {
		t.Fatalf("read indexes %v, want [0 2]", got)
	}

	e0, _ := back.Get(0)
	if e0.Len() != 32 || e0.Channels() != 2 || !e0.HasMarkers() {
		t.Fatalf("entry 0 = len %d, channels %d, markers %v", e0.Len(), e0.Channels(), e0.HasMarkers())
	}
	if got := e0.Channel1().Samples()[0]; math.Abs(got-0.5) > 1.0/32767 {
		t.Errorf("ch1[0] = %v, want 0.5", got)
	}
	if got := e0.Channel2().Samples()[0]; math.Abs(got+0.25) > 16.0/32767 {
		t.Errorf("ch2[0] = %v, want -0.25", got)
	}
	if e0.Markers()[0] != 0b1010 || e0.Markers()[20] != 0 {
		t.Errorf("markers = %v", e0.Markers())
	}

	e2, _ := back.Get(2)
	if e2.Len() != 64 || e2.Channels() != 1 || e2.HasMarkers() {
		t.Errorf("entry 2 = len %d, channels %d, markers %v", e2.Len(), e2.Channels(), e2.HasMarkers())
	}
	if got := e2.Channel1().Samples(); got[39] != 1 || got[40] != 0 {
		t.Errorf("entry 2 samples around padding = %v, %v", got[39], got[40])
	}
}

func TestCore_WriteWaveformMemoryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		index int
		n     int
		want  error
	}{
		{name: "beyond slots", index: 3, n: 16, want: ErrIndexOutOfRange},
		{name: "filler", index: 1, n: 16, want: ErrFillerSlot},
		{name: "longer than slot", index: 2, n: 65, want: waveform.ErrTargetLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, s := device(t)
			table := waveform.NewTable()
			if err := table.SetArrays(0, fill(16, 0), nil, nil); err != nil {
				t.Fatalf("SetArrays(0) error = %v", err)
			}
			if err := table.SetArrays(tt.index, fill(tt.n, 0), nil, nil); err != nil {
				t.Fatalf("SetArrays(%d) error = %v", tt.index, err)
			}

			err := core.WriteWaveformMemory(context.Background(), table, WriteOptions{Validate: true})
			if !errors.Is(err, tt.want) {
				t.Fatalf("WriteWaveformMemory() error = %v, want %v", err, tt.want)
			}
			if got := waves(s); len(got) != 0 {
				t.Errorf("failed upload wrote %v", got)
			}
		})
	}
}

func TestCore_WriteWaveformMemoryOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, s := device(t)

	table := waveform.NewTable()
	_ = table.SetArrays(0, fill(16, 0), nil, nil)
	_ = table.SetArrays(9, fill(8, 0), nil, nil)

	if err := core.WriteWaveformMemory(ctx, table, WriteOptions{Indexes: []int{0}, Validate: true}); err != nil {
		t.Fatalf("WriteWaveformMemory(Indexes) error = %v", err)
	}
	if got := waves(s); !slices.Equal(got, []string{root + "/waveform/waves/0"}) {
		t.Errorf("wrote %v", got)
	}

	if err := core.WriteWaveformMemory(ctx, table, WriteOptions{}); err != nil {
		t.Fatalf("WriteWaveformMemory(no validation) error = %v", err)
	}
	b, _ := s.GetVector(ctx, root+"/waveform/waves/9")
	if len(b) != 16 {
		t.Errorf("unvalidated waves/9 holds %d bytes, want 16", len(b))
	}
}

func TestCore_ReadWaveformMemoryIndexes(t *testing.T) {
	t.Parallel()

	core, _ := device(t)
	if _, err := core.ReadWaveformMemory(context.Background(), []int{5}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ReadWaveformMemory([5]) error = %v", err)
	}

	back, err := core.ReadWaveformMemory(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("ReadWaveformMemory([1]) error = %v", err)
	}
	if back.Len() != 0 {
		t.Errorf("filler slot was read: %v", back.Indexes())
	}
}

func TestCore_CommandTableSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, s := device(t)

	got, err := core.CommandTableSchema(ctx)
	if err != nil {
		t.Fatalf("CommandTableSchema() error = %v", err)
	}
	bundled, _ := commandtable.DefaultSchema("HDAWG")
	if got != bundled {
		t.Error("CommandTableSchema() did not fall back to the bundled schema")
	}

	published := `{"properties": {"header": {"type": "object"}, "table": {"type": "array", "items": {"type": "object",
		"properties": {"index": {"type": "integer"}, "gain": {"type": "number"}}}}}}`
	if err := s.Seed(root+"/commandtable/schema", []byte(published)); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if again, _ := core.CommandTableSchema(ctx); again != got {
		t.Error("CommandTableSchema() was not cached")
	}

	fresh := New(s, root, "HDAWG8")
	own, err := fresh.CommandTableSchema(ctx)
	if err != nil {
		t.Fatalf("CommandTableSchema() error = %v", err)
	}
	if !slices.Equal(own.Paths(), []string{"gain"}) {
		t.Errorf("device schema paths = %v", own.Paths())
	}
}

func TestCore_UploadCommandTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, s := device(t)

	b, err := core.NewCommandTable(ctx)
	if err != nil {
		t.Fatalf("NewCommandTable() error = %v", err)
	}
	_ = b.Set(0, "waveform.index", 0)
	_ = b.Set(0, "amplitude0.value", 0.5)
	doc, err := b.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if err := core.UploadCommandTable(ctx, doc); err != nil {
		t.Fatalf("UploadCommandTable() error = %v", err)
	}
	if ok, err := core.CommandTableLoaded(ctx); err != nil || !ok {
		t.Errorf("CommandTableLoaded() = %v, %v", ok, err)
	}

	loaded, err := core.LoadCommandTable(ctx)
	if err != nil {
		t.Fatalf("LoadCommandTable() error = %v", err)
	}
	if v, _ := loaded.Get(0, "amplitude0.value"); v != 0.5 {
		t.Errorf("loaded amplitude0.value = %v", v)
	}

	if err := core.UploadRawCommandTable(ctx, []byte(`{"header"`), false); !errors.Is(err, ErrCommandTableParse) {
		t.Errorf("unvalidated broken upload error = %v, want ErrCommandTableParse", err)
	}

	before, _ := s.GetVector(ctx, root+"/commandtable/data")
	bad := `{"header": {"version": "1.2.0"}, "table": [{"index": 0, "amplitude0": {"value": 4}}]}`
	if err := core.UploadRawCommandTable(ctx, []byte(bad), true); !errors.Is(err, commandtable.ErrInvalidDocument) {
		t.Errorf("validated bad upload error = %v, want ErrInvalidDocument", err)
	}
	after, _ := s.GetVector(ctx, root+"/commandtable/data")
	if string(after) != string(before) {
		t.Error("rejected command table reached the device")
	}

	good := `{"header": {"version": "1.2.0"}, "table": [{"index": 3, "phase0": {"value": 90}}]}`
	if err := core.UploadRawCommandTable(ctx, []byte(good), true); err != nil {
		t.Errorf("validated upload error = %v", err)
	}
}

func TestCore_LoadSequencerProgram(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	core, s := device(t)

	var gotType string
	comp := CompilerFunc(func(_ context.Context, source, deviceType string) ([]byte, error) {
		gotType = deviceType
		if strings.Contains(source, "syntax error") {
			return nil, errors.New("line 1: syntax error")
		}
		return []byte("\x7fELF" + source), nil
	})

	if err := core.LoadSequencerProgram(ctx, "  \n", comp); !errors.Is(err, ErrEmptyProgram) {
		t.Errorf("empty program error = %v, want ErrEmptyProgram", err)
	}
	if err := core.LoadSequencerProgram(ctx, "playZero(32);", nil); !errors.Is(err, ErrNoCompiler) {
		t.Errorf("nil compiler error = %v, want ErrNoCompiler", err)
	}
	if err := core.LoadSequencerProgram(ctx, "syntax error", comp); err == nil || !strings.Contains(err.Error(), "compile sequencer program") {
		t.Errorf("compiler failure error = %v", err)
	}

	if err := core.LoadSequencerProgram(ctx, "playZero(32);", comp); err != nil {
		t.Fatalf("LoadSequencerProgram() error = %v", err)
	}
	if gotType != "HDAWG8" {
		t.Errorf("compiled for %q", gotType)
	}
	if ready, _ := s.GetInt(ctx, root+"/ready"); ready != 1 {
		t.Errorf("ready = %d, want 1", ready)
	}
}
