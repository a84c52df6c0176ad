// SPDX-License-Identifier: EPL-2.0

package awg

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/waveform"
)

// WriteOptions controls WriteWaveformMemory.
type WriteOptions struct {
	// Indexes limits the upload to these waveform indices. Empty means
	// every entry of the table.
	Indexes []int
	// Validate checks indices against the device waveform descriptors and
	// pads each entry to the length of its slot.
	Validate bool
}

// Descriptors reads the waveform slots of the loaded sequencer program.
func (c *Core) Descriptors(ctx context.Context) (waveform.Descriptors, error) {
	raw, err := c.conn.GetVector(ctx, c.node("waveform/descriptors"))
	if err != nil {
		return nil, fmt.Errorf("read waveform descriptors: %w", err)
	}

	return waveform.ParseDescriptors(raw)
}

func (c *Core) wavePath(index int) string {
	return c.node("waveform/waves/" + strconv.Itoa(index))
}

// WriteWaveformMemory uploads entries of t to the waveform memory. The
// waveforms must already be declared by the loaded sequencer program.
// Every vector is encoded before the first one is written, so a failing
// entry leaves the device memory untouched.
func (c *Core) WriteWaveformMemory(ctx context.Context, t *waveform.Table, opts WriteOptions) error {
	var descs waveform.Descriptors
	if opts.Validate {
		var err error
		if descs, err = c.Descriptors(ctx); err != nil {
			return err
		}
	}

	vectors := map[string][]byte{}
	for index := range t.All() {
		if len(opts.Indexes) > 0 && !slices.Contains(opts.Indexes, index) {
			continue
		}

		target := 0
		if opts.Validate {
			if index >= len(descs) {
				return fmt.Errorf("%w: index %d, device has %d waveforms", ErrIndexOutOfRange, index, len(descs))
			}
			if descs[index].Filler() {
				return fmt.Errorf("%w: index %d", ErrFillerSlot, index)
			}
			target = int(descs[index].Length)
		}

		n, err := t.RawVector(index, target)
		if err != nil {
			return err
		}
		vectors[c.wavePath(index)] = n.Bytes()
	}

	log.Debug().Str("core", c.root).Int("waveforms", len(vectors)).Msg("writing waveform memory")

	if b, ok := c.conn.(vectorBatcher); ok {
		return b.SetVectors(ctx, vectors)
	}
	for _, path := range slices.Sorted(maps.Keys(vectors)) {
		if err := c.conn.SetVector(ctx, path, vectors[path]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return nil
}

// ReadWaveformMemory reads waveforms back from the device. With no
// indexes every non filler slot is read. The returned table uses the
// core's marker bits.
func (c *Core) ReadWaveformMemory(ctx context.Context, indexes []int) (*waveform.Table, error) {
	descs, err := c.Descriptors(ctx)
	if err != nil {
		return nil, err
	}
	if indexes == nil {
		indexes = make([]int, len(descs))
		for i := range descs {
			indexes[i] = i
		}
	}

	enc := waveform.Encoder{MarkerBits: c.markerBits}
	t := waveform.NewTable(waveform.WithMarkerBits(c.markerBits))
	for _, index := range indexes {
		if index < 0 || index >= len(descs) {
			return nil, fmt.Errorf("%w: index %d, device has %d waveforms", ErrIndexOutOfRange, index, len(descs))
		}
		if descs[index].Filler() {
			log.Warn().Int("index", index).Msg("skipping filler waveform slot")
			continue
		}

		raw, err := c.conn.GetVector(ctx, c.wavePath(index))
		if err != nil {
			return nil, fmt.Errorf("read waveform %d: %w", index, err)
		}
		words, err := waveform.ParseWords(raw)
		if err != nil {
			return nil, fmt.Errorf("read waveform %d: %w", index, err)
		}

		e, err := enc.Decode(words, descs[index].Layout(c.markerBits))
		if err != nil {
			return nil, fmt.Errorf("decode waveform %d: %w", index, err)
		}
		if err := t.Set(index, e); err != nil {
			return nil, err
		}
	}

	return t, nil
}
