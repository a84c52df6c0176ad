// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/ik5/awgkit/nodeinfo"
)

const core = "/dev8000/awgs/0"

func newStore() *Store {
	return New(nodeinfo.AWG(core))
}

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()

	if err := s.Set(ctx, core+"/outputs/0/gains/1", 0.5); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := s.GetDouble(ctx, core+"/OUTPUTS/0/GAINS/1"); err != nil || got != 0.5 {
		t.Errorf("GetDouble() = %v, %v", got, err)
	}

	if err := s.Set(ctx, "/dev8000/unlisted", true); err != nil {
		t.Fatalf("Set(unlisted) error = %v", err)
	}
	if got, _ := s.GetInt(ctx, "/dev8000/unlisted"); got != 1 {
		t.Errorf("GetInt(unlisted) = %d, want 1", got)
	}

	if _, err := s.GetInt(ctx, core+"/single"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInt(unset) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetString(ctx, core+"/outputs/0/gains/1"); !errors.Is(err, ErrType) {
		t.Errorf("GetString(double) error = %v, want ErrType", err)
	}
}

func TestStore_EnumNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()

	if err := s.Set(ctx, core+"/enable", "running"); err != nil {
		t.Fatalf("Set(running) error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/enable"); got != 1 {
		t.Errorf("enable = %d, want 1", got)
	}
	if err := s.Set(ctx, core+"/enable", "paused"); !errors.Is(err, ErrUnknownEnum) {
		t.Errorf("Set(paused) error = %v, want ErrUnknownEnum", err)
	}
	if got, _ := s.GetInt(ctx, core+"/enable"); got != 1 {
		t.Errorf("rejected write changed enable to %d", got)
	}
}

func TestStore_AccessChecks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()

	if err := s.Set(ctx, core+"/commandtable/status", 0); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set(status) error = %v, want ErrReadOnly", err)
	}
	if err := s.Seed(core+"/commandtable/status", 8); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/commandtable/status"); got != 8 {
		t.Errorf("status = %d, want 8", got)
	}
	if err := s.Set(ctx, core+"/waveform/waves/*", 0); !errors.Is(err, ErrWildcard) {
		t.Errorf("wildcard Set() error = %v, want ErrWildcard", err)
	}
	if err := s.Set(ctx, "/dev8000/x", []int{1}); !errors.Is(err, ErrType) {
		t.Errorf("Set([]int) error = %v, want ErrType", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Set(cancelled, "/dev8000/x", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() on cancelled context error = %v", err)
	}
}

func TestStore_Vectors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()

	data := []byte{1, 2, 3, 4}
	if err := s.SetVector(ctx, core+"/waveform/waves/3", data); err != nil {
		t.Fatalf("SetVector() error = %v", err)
	}
	data[0] = 9

	got, err := s.GetVector(ctx, core+"/waveform/waves/3")
	if err != nil {
		t.Fatalf("GetVector() error = %v", err)
	}
	if !slices.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("GetVector() = %v, store kept a caller slice", got)
	}
	got[1] = 9
	if again, _ := s.GetVector(ctx, core+"/waveform/waves/3"); again[1] != 2 {
		t.Error("GetVector() returned the stored slice")
	}
}

func TestStore_WildcardGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()
	for _, i := range []string{"0", "1", "12"} {
		if err := s.SetVector(ctx, core+"/waveform/waves/"+i, []byte(i)); err != nil {
			t.Fatalf("SetVector(%s) error = %v", i, err)
		}
	}

	got, err := s.Get(ctx, core+"/waveform/waves/1*")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Get(waves/1*) = %v, want waves 1 and 12", got)
	}
	if _, err := s.Get(ctx, core+"/nothing/*"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(no match) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetInt(ctx, core+"/waveform/waves/*"); !errors.Is(err, ErrWildcard) {
		t.Errorf("GetInt(wildcard) error = %v, want ErrWildcard", err)
	}
}

func TestStore_Hooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()
	s.OnSet(core+"/commandtable/data", func(ctx context.Context, s *Store, path string, value any) {
		status := 1
		if !json.Valid(value.([]byte)) {
			status = 8
		}
		_ = s.Seed(core+"/commandtable/status", status)
	})

	if err := s.SetVector(ctx, core+"/commandtable/data", []byte("{")); err != nil {
		t.Fatalf("SetVector() error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/commandtable/status"); got != 8 {
		t.Errorf("status after broken table = %d, want 8", got)
	}
}

func TestStore_ListNodesJSON(t *testing.T) {
	t.Parallel()

	s := newStore()
	raw, err := s.ListNodesJSON(core + "/elf")
	if err != nil {
		t.Fatalf("ListNodesJSON() error = %v", err)
	}

	tree, err := nodeinfo.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !slices.Equal(tree.Paths(), []string{core + "/elf/data"}) {
		t.Errorf("listed %v", tree.Paths())
	}
}

func TestStore_SetVectorsChecksFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore()

	err := s.SetVectors(ctx, map[string][]byte{
		core + "/waveform/waves/0":     {1},
		core + "/waveform/descriptors": {2},
	})
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("SetVectors() error = %v, want ErrReadOnly", err)
	}
	if len(s.Paths()) != 0 {
		t.Errorf("failed transaction wrote %v", s.Paths())
	}

	if err := s.SetVectors(ctx, map[string][]byte{core + "/waveform/waves/0": {1}, core + "/waveform/waves/1": {2}}); err != nil {
		t.Fatalf("SetVectors() error = %v", err)
	}
	if len(s.Paths()) != 2 {
		t.Errorf("Paths() = %v", s.Paths())
	}
}

func TestNewAWG(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewAWG(core)

	if err := s.SetVector(ctx, core+"/commandtable/data", []byte(`{"header": {}}`)); err != nil {
		t.Fatalf("SetVector(data) error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/commandtable/status"); got != StatusUploaded {
		t.Errorf("status = %d, want %d", got, StatusUploaded)
	}
	if err := s.SetVector(ctx, core+"/commandtable/data", []byte(`{"header"`)); err != nil {
		t.Fatalf("SetVector(data) error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/commandtable/status"); got != StatusParseError {
		t.Errorf("status = %d, want %d", got, StatusParseError)
	}

	if got, _ := s.GetInt(ctx, core+"/ready"); got != 0 {
		t.Errorf("ready before load = %d", got)
	}
	if err := s.SetVector(ctx, core+"/elf/data", []byte{0x7f, 'E', 'L', 'F'}); err != nil {
		t.Fatalf("SetVector(elf) error = %v", err)
	}
	if got, _ := s.GetInt(ctx, core+"/ready"); got != 1 {
		t.Errorf("ready after load = %d", got)
	}
}
