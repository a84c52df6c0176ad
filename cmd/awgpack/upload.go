// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/awg"
	"github.com/ik5/awgkit/internal/config"
	"github.com/ik5/awgkit/nodestore"
)

func runUpload(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	project := fs.String("project", "awg.toml", "project file (.toml or .yaml)")
	url := fs.String("url", "http://127.0.0.1:8004", "node server base URL")
	root := fs.String("root", defaultRoot, "node path of the AWG core")
	validate := fs.Bool("validate", true, "check waveforms against the device descriptors")
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

	core := awg.New(nodestore.NewClient(*url, nil), *root, p.DeviceType, awg.WithMarkerBits(p.MarkerBits))

	return upload(ctx, core, a, *validate, stdout)
}

func upload(ctx context.Context, core *awg.Core, a *artifacts, validate bool, stdout io.Writer) error {
	if err := core.WriteWaveformMemory(ctx, a.table, awg.WriteOptions{Validate: validate}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "uploaded %d waveforms to %s\n", a.table.Len(), core.Root())

	if a.doc == nil {
		return nil
	}
	if err := core.UploadCommandTable(ctx, a.doc); err != nil {
		return err
	}
	log.Info().Int("entries", a.doc.Len()).Msg("command table uploaded")
	fmt.Fprintf(stdout, "uploaded command table with %d entries\n", a.doc.Len())

	return nil
}
