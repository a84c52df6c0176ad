// SPDX-License-Identifier: EPL-2.0

package awg

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Compiler turns sequencer source into a program image for a device type.
type Compiler interface {
	Compile(ctx context.Context, source, deviceType string) ([]byte, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(ctx context.Context, source, deviceType string) ([]byte, error)

func (f CompilerFunc) Compile(ctx context.Context, source, deviceType string) ([]byte, error) {
	return f(ctx, source, deviceType)
}

// LoadSequencerProgram compiles source and writes the image to the core.
// The core reports readiness on its own once the image is loaded.
func (c *Core) LoadSequencerProgram(ctx context.Context, source string, comp Compiler) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptyProgram
	}
	if comp == nil {
		return ErrNoCompiler
	}

	elf, err := comp.Compile(ctx, source, c.deviceType)
	if err != nil {
		return fmt.Errorf("compile sequencer program: %w", err)
	}
	if err := c.conn.SetVector(ctx, c.node("elf/data"), elf); err != nil {
		return fmt.Errorf("write sequencer program: %w", err)
	}
	log.Debug().Str("core", c.root).Int("bytes", len(elf)).Msg("sequencer program loaded")

	return nil
}
