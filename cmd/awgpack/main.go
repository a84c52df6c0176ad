// SPDX-License-Identifier: EPL-2.0

// Command awgpack turns a project file into AWG waveform memory images,
// sequencer declarations and a command table, and can serve or upload
// them to an emulated AWG core.
//
//	awgpack build   -project awg.toml
//	awgpack serve   -addr :8004 -root /dev8000/awgs/0
//	awgpack upload  -project awg.toml -url http://127.0.0.1:8004
//	awgpack inspect -channels 2 -markers build/wave0.bin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/awgkit/internal/logging"
)

var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = []command{
	{"build", "write native buffers, seqc declarations and the command table", runBuild},
	{"serve", "serve an emulated AWG core over HTTP", runServe},
	{"upload", "build a project and upload it to an AWG core server", runUpload},
	{"inspect", "decode a native waveform buffer", runInspect},
}

func main() {
	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "awgpack: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, args[1:], stdout)
		}
	}

	fmt.Fprintf(stderr, "awgpack: unknown command %q\n", args[0])
	usage(stderr)

	return errUsage
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: awgpack <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}
