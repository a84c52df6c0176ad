// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/awgkit"
	"github.com/ik5/awgkit/audio"
	"github.com/ik5/awgkit/commandtable"
	"github.com/ik5/awgkit/formats/wav"
	"github.com/ik5/awgkit/internal/config"
	"github.com/ik5/awgkit/waveform"
	"github.com/ik5/awgkit/wavegen"
)

type artifacts struct {
	table  *waveform.Table
	bundle *awgkit.Bundle
	// doc is nil when the project has no command table.
	doc *commandtable.Document
}

func runBuild(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	project := fs.String("project", "awg.toml", "project file (.toml or .yaml)")
	previews := fs.Bool("wav", true, "write a WAV preview per waveform")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := config.Load(*project)
	if err != nil {
		return err
	}

	a, err := buildProject(ctx, p)
	if err != nil {
		return err
	}

	files, err := writeArtifacts(p, a, *previews)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(stdout, f)
	}

	return nil
}

// buildProject loads every waveform source, then assembles the table in
// index order.
func buildProject(ctx context.Context, p *config.Project) (*artifacts, error) {
	type channels struct{ ch1, ch2 []float64 }
	loaded := make([]channels, len(p.Waveforms))

	reg := awgkit.Registry()
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range p.Waveforms {
		g.Go(func() error {
			ch1, ch2, err := loadSource(gctx, p, reg, w)
			if err != nil {
				return fmt.Errorf("waveform %d: %w", w.Index, err)
			}
			loaded[i] = channels{ch1, ch2}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := waveform.NewTable(waveform.WithMarkerBits(p.MarkerBits))
	for i, w := range p.Waveforms {
		if err := setWaveform(t, w, loaded[i].ch1, loaded[i].ch2); err != nil {
			return nil, fmt.Errorf("waveform %d: %w", w.Index, err)
		}
	}

	bundle, err := awgkit.Compile(t, p.Target)
	if err != nil {
		return nil, err
	}
	log.Info().Int("waveforms", t.Len()).Str("target", p.Target.String()).Msg("waveform table built")

	doc, err := buildCommandTable(p)
	if err != nil {
		return nil, err
	}

	return &artifacts{table: t, bundle: bundle, doc: doc}, nil
}

func loadSource(ctx context.Context, p *config.Project, reg *audio.Registry, w config.Waveform) (ch1, ch2 []float64, err error) {
	switch {
	case w.File != "":
		return awgkit.LoadFile(reg, p.Path(w.File), awgkit.LoadOptions{Length: w.Length, Mono: w.Mono})
	case w.Script != "":
		src, err := os.ReadFile(p.Path(w.Script))
		if err != nil {
			return nil, nil, err
		}
		return wavegen.Script{Name: filepath.Base(w.Script), Source: string(src)}.Eval(ctx, w.Length)
	default:
		return wavegen.Generate(w.Shape, w.Length, shapeParams(w.Params))
	}
}

func shapeParams(a config.ShapeArgs) wavegen.Params {
	or := func(v *float64, def float64) float64 {
		if v == nil {
			return def
		}
		return *v
	}

	return wavegen.Params{
		Amplitude: or(a.Amplitude, 1),
		Position:  or(a.Position, 0),
		Width:     or(a.Width, 0),
		Beta:      or(a.Beta, 0),
		Cycles:    or(a.Cycles, 1),
		Phase:     or(a.Phase, 0),
	}
}

func setWaveform(t *waveform.Table, w config.Waveform, ch1, ch2 []float64) error {
	mk := func(ch int, samples []float64) (*waveform.Wave, error) {
		if samples == nil {
			return nil, nil
		}
		return waveform.NewWave(samples, waveform.WithName(w.Name(ch)), waveform.WithOutputs(w.OutputSet(ch)))
	}

	w1, err := mk(0, ch1)
	if err != nil {
		return err
	}
	w2, err := mk(1, ch2)
	if err != nil {
		return err
	}

	var markers []uint16
	if w.Marker != nil {
		markers = wavegen.Marker(len(ch1), w.Marker.Start, w.Marker.Length, w.Marker.Value)
	}

	return t.SetWaves(w.Index, w1, w2, markers)
}

// buildCommandTable returns nil when the project configures no command
// table. Every failing field is reported.
func buildCommandTable(p *config.Project) (*commandtable.Document, error) {
	if len(p.Commands) == 0 && p.CommandTable == (config.CommandTableCfg{}) {
		return nil, nil
	}

	schema, err := commandtable.DefaultSchema(p.DeviceType)
	if err != nil {
		return nil, err
	}
	b := commandtable.NewBuilder(schema)

	var errs []error
	if p.CommandTable.UserString != "" {
		errs = append(errs, b.SetUserString(p.CommandTable.UserString))
	}
	if p.CommandTable.Partial {
		errs = append(errs, b.SetPartial(true))
	}
	for _, c := range p.Commands {
		for _, path := range slices.Sorted(maps.Keys(c.Fields)) {
			errs = append(errs, b.Set(c.Index, path, c.Fields[path]))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("command table: %w", err)
	}

	return b.Document()
}

func writeArtifacts(p *config.Project, a *artifacts, previews bool) ([]string, error) {
	dir := p.Path(p.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, index := range slices.Sorted(maps.Keys(a.bundle.Vectors)) {
		if err := write(fmt.Sprintf("wave%d.bin", index), a.bundle.Vectors[index].Bytes()); err != nil {
			return nil, err
		}
		if !previews {
			continue
		}
		e, _ := a.table.Get(index)
		path, err := writePreview(dir, index, e, p.SampleRate)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if err := write("waveforms.seqc", []byte(a.bundle.Snippet.String())); err != nil {
		return nil, err
	}

	if a.doc != nil {
		raw, err := json.MarshalIndent(a.doc, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := write("commandtable.json", append(raw, '\n')); err != nil {
			return nil, err
		}
	}

	log.Info().Str("dir", dir).Int("files", len(written)).Msg("artifacts written")

	return written, nil
}

func writePreview(dir string, index int, e *waveform.Entry, rate int) (path string, err error) {
	path = filepath.Join(dir, fmt.Sprintf("wave%d.wav", index))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := wav.WriteEntry(f, e, rate); err != nil {
		return "", fmt.Errorf("preview %d: %w", index, err)
	}

	return path, nil
}
