// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const fillerMarker = "__filler"

// Descriptor is the device's view of one waveform slot, as reported by the
// waveform descriptors node after a sequencer program was loaded.
type Descriptor struct {
	Name       string  `json:"name"`
	Filename   string  `json:"filename,omitempty"`
	Function   string  `json:"function,omitempty"`
	Length     jsonInt `json:"length"`
	Channels   jsonInt `json:"channels"`
	MarkerBits string  `json:"marker_bits"`
}

// Filler reports slots the compiler inserted as padding. They cannot be
// written.
func (d Descriptor) Filler() bool {
	return strings.Contains(d.Name, fillerMarker)
}

// HasMarkers reports whether any channel of the slot carries marker bits.
func (d Descriptor) HasMarkers() bool {
	for part := range strings.SplitSeq(d.MarkerBits, ";") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n != 0 {
			return true
		}
	}

	return false
}

// Layout returns the native layout the slot expects.
func (d Descriptor) Layout(markerBits int) Layout {
	ch := int(d.Channels)
	if ch == 0 {
		ch = 1
	}

	return Layout{Channels: ch, Markers: d.HasMarkers(), MarkerBits: markerBits}
}

// Descriptors is the list of slots, addressed by waveform index.
type Descriptors []Descriptor

// ParseDescriptors decodes the JSON document {"waveforms": [...]}.
func ParseDescriptors(raw []byte) (Descriptors, error) {
	var doc struct {
		Waveforms Descriptors `json:"waveforms"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse waveform descriptors: %w", err)
	}

	return doc.Waveforms, nil
}

// jsonInt accepts both 1008 and "1008"; the device reports numbers as
// strings.
type jsonInt int

func (n *jsonInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*n = jsonInt(v)

	return nil
}

func (n jsonInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.Itoa(int(n)))), nil
}
