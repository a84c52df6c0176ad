// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ik5/awgkit/waveform"
)

func runInspect(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	channels := fs.Int("channels", 1, "interleaved channels (1 or 2)")
	markers := fs.Bool("markers", false, "low bits of the last word hold markers")
	markerBits := fs.Int("marker-bits", waveform.DefaultMarkerBits, "marker bits per sample")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect: expected one buffer file")
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	words, err := waveform.ParseWords(raw)
	if err != nil {
		return err
	}

	layout := waveform.Layout{Channels: *channels, Markers: *markers, MarkerBits: *markerBits}
	e, err := waveform.Encoder{MarkerBits: *markerBits}.Decode(words, layout)
	if err != nil {
		return err
	}

	return describe(stdout, e)
}

func describe(w io.Writer, e *waveform.Entry) error {
	if _, err := fmt.Fprintf(w, "samples: %d\nchannels: %d\n", e.Len(), e.Channels()); err != nil {
		return err
	}
	for ch, wave := range []*waveform.Wave{e.Channel1(), e.Channel2()}[:e.Channels()] {
		s := wave.Samples()
		if len(s) == 0 {
			continue
		}
		fmt.Fprintf(w, "channel %d: min %.5f max %.5f\n", ch+1, slices.Min(s), slices.Max(s))
	}
	if e.HasMarkers() {
		set := 0
		for _, m := range e.Markers() {
			if m != 0 {
				set++
			}
		}
		fmt.Fprintf(w, "markers: %d of %d samples set\n", set, e.Len())
	}

	return nil
}
