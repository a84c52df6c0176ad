// SPDX-License-Identifier: EPL-2.0

package nodeinfo

import (
	"slices"
	"testing"
)

func TestInfo_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		info                 Info
		read, write, setting bool
		vector               bool
	}{
		{
			name: "setting",
			info: Info{Properties: "Read, Write, Setting", Type: "Integer (64 bit)"},
			read: true, write: true, setting: true,
		},
		{
			name: "read only vector",
			info: Info{Properties: "Read", Type: "ZIVectorData"},
			read: true, vector: true,
		},
		{
			name:  "write only",
			info:  Info{Properties: "Write"},
			write: true,
		},
		{
			name: "no substring match",
			info: Info{Properties: "Settings, Readback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.info.Readable(); got != tt.read {
				t.Errorf("Readable() = %v, want %v", got, tt.read)
			}
			if got := tt.info.Writable(); got != tt.write {
				t.Errorf("Writable() = %v, want %v", got, tt.write)
			}
			if got := tt.info.IsSetting(); got != tt.setting {
				t.Errorf("IsSetting() = %v, want %v", got, tt.setting)
			}
			if got := tt.info.IsVector(); got != tt.vector {
				t.Errorf("IsVector() = %v, want %v", got, tt.vector)
			}
		})
	}
}

func TestInfo_Options(t *testing.T) {
	t.Parallel()

	info := Info{RawOptions: map[string]string{
		"1":   `"on", "running": Sequencer running`,
		"0":   `"off": Sequencer idle`,
		"2":   `600 MHz`,
		"bad": `"skip": not a key`,
	}}

	opts := info.Options()
	if len(opts) != 3 {
		t.Fatalf("Options() = %+v, want 3 options", opts)
	}
	if opts[0].Key != 0 || !slices.Equal(opts[0].Names, []string{"off"}) || opts[0].Description != "Sequencer idle" {
		t.Errorf("option 0 = %+v", opts[0])
	}
	if !slices.Equal(opts[1].Names, []string{"on", "running"}) || opts[1].Description != "Sequencer running" {
		t.Errorf("option 1 = %+v", opts[1])
	}
	if opts[2].Names != nil || opts[2].Description != "600 MHz" {
		t.Errorf("option 2 = %+v", opts[2])
	}

	if k, ok := info.OptionKey("running"); !ok || k != 1 {
		t.Errorf("OptionKey(running) = %d, %v", k, ok)
	}
	if _, ok := info.OptionKey("skip"); ok {
		t.Error("OptionKey() found a name with a non integer key")
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"/dev1/awgs/0/waveform/waves/*", "/dev1/awgs/0/waveform/waves/12", true},
		{"/dev1/*/enable", "/dev1/awgs/0/enable", true},
		{"/DEV1/AWGS/0/ENABLE", "/dev1/awgs/0/enable", true},
		{"/dev1/awgs/?/enable", "/dev1/awgs/10/enable", false},
		{"/dev1/awgs/[01]/enable", "/dev1/awgs/1/enable", true},
		{"/dev1/awgs/[!01]/enable", "/dev1/awgs/1/enable", false},
		{"/dev1/awgs/0/time", "/dev1/awgs/0/time2", false},
		{"/dev1/a.c", "/dev1/abc", false},
		{"/dev1/[x", "/dev1/[x", true},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.name); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}
