// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"errors"
	"slices"
	"testing"
)

func TestFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		device string
		want   string
		err    error
	}{
		{device: "HDAWG8", want: "hdawg"},
		{device: "HDAWG4", want: "hdawg"},
		{device: "hdawg", want: "hdawg"},
		{device: "SHFSG8", want: "shfsg"},
		{device: "SHFQC", want: "shfsg"},
		{device: "UHFQA", err: ErrUnknownDevice},
		{device: "", err: ErrUnknownDevice},
	}

	for _, tt := range tests {
		t.Run(tt.device, func(t *testing.T) {
			t.Parallel()

			got, err := Family(tt.device)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Family(%q) error = %v, want %v", tt.device, err, tt.err)
			}
			if got != tt.want {
				t.Errorf("Family(%q) = %q, want %q", tt.device, got, tt.want)
			}
		})
	}
}

func TestDefaultSchema_HDAWG(t *testing.T) {
	t.Parallel()

	s, err := DefaultSchema("HDAWG8")
	if err != nil {
		t.Fatalf("DefaultSchema() error = %v", err)
	}
	if s.Version() != "1.2.0" {
		t.Errorf("Version() = %q, want 1.2.0", s.Version())
	}
	if s.MaxEntries() != 1024 {
		t.Errorf("MaxEntries() = %d, want 1024", s.MaxEntries())
	}

	for _, path := range []string{"amplitude0", "amplitude1", "phase0", "phase1", "waveform.index", "waveform.length", "waveform.playZero"} {
		if !slices.Contains(s.Paths(), path) {
			t.Errorf("Paths() is missing %q", path)
		}
	}
	if slices.Contains(s.Paths(), "index") {
		t.Error("Paths() lists the entry index as a node")
	}

	amp, _ := s.Field("amplitude0")
	if !amp.Incremental {
		t.Error("amplitude0 does not take an increment")
	}
	idx, _ := s.Field("waveform.index")
	if idx.Incremental {
		t.Error("waveform.index takes an increment")
	}

	again, _ := DefaultSchema("hdawg4")
	if again != s {
		t.Error("DefaultSchema() compiled the bundled schema twice")
	}
}

func TestDefaultSchema_SHFSG(t *testing.T) {
	t.Parallel()

	s, err := DefaultSchema("SHFQC")
	if err != nil {
		t.Fatalf("DefaultSchema() error = %v", err)
	}
	osc, ok := s.Field("oscillatorSelect")
	if !ok {
		t.Fatal("no oscillatorSelect node")
	}
	if osc.Incremental {
		t.Error("oscillatorSelect takes an increment")
	}

	var kinds []string
	for _, c := range osc.Constraints() {
		kinds = append(kinds, c.Keyword())
	}
	if !slices.Equal(kinds, []string{"type", "enum"}) {
		t.Errorf("Constraints() keywords = %v", kinds)
	}
}

func TestLoadSchema_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{`},
		{name: "no table", raw: `{"properties": {"header": {"type": "object"}}}`},
		{name: "table without items", raw: `{"properties": {"table": {"type": "array"}}}`},
		{name: "undefined reference", raw: `{"properties": {"table": {"items": {"$ref": "#/definitions/entry"}}}}`},
		{name: "external reference", raw: `{"properties": {"table": {"items": {"$ref": "other.json#/entry"}}}}`},
		{
			name: "recursive reference",
			raw: `{"definitions": {"entry": {"type": "object", "properties": {"index": {"type": "integer"}, "next": {"$ref": "#/definitions/entry"}}}},
				"properties": {"table": {"items": {"$ref": "#/definitions/entry"}}}}`,
		},
		{name: "entry without index", raw: `{"properties": {"table": {"items": {"type": "object", "properties": {"x": {"type": "number"}}}}}}`},
		{name: "entry without nodes", raw: `{"properties": {"table": {"items": {"type": "object", "properties": {"index": {"type": "integer"}}}}}}`},
		{name: "bad type keyword", raw: `{"type": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadSchema([]byte(tt.raw)); !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("LoadSchema() error = %v, want ErrInvalidSchema", err)
			}
		})
	}
}

func TestLoadSchema_Minimal(t *testing.T) {
	t.Parallel()

	raw := `{
		"properties": {
			"table": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"index": {"type": "integer", "minimum": 0},
						"gain": {"type": ["number", "integer"], "maximum": 2}
					}
				}
			}
		}
	}`
	s, err := LoadSchema([]byte(raw))
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if !slices.Equal(s.Paths(), []string{"gain"}) {
		t.Errorf("Paths() = %v", s.Paths())
	}
	if s.MaxEntries() != -1 || s.Version() != "" {
		t.Errorf("MaxEntries() = %d, Version() = %q", s.MaxEntries(), s.Version())
	}
}
