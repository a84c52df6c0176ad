// SPDX-License-Identifier: EPL-2.0

package awg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/commandtable"
)

// CommandTableSchema returns the schema the device validates command tables
// against. When the device does not publish one the bundled schema for its
// family is used. The result is cached.
func (c *Core) CommandTableSchema(ctx context.Context) (*commandtable.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.schema != nil {
		return c.schema, nil
	}

	raw, err := c.conn.GetVector(ctx, c.node("commandtable/schema"))
	if err == nil {
		s, err := commandtable.LoadSchema(raw)
		if err != nil {
			return nil, fmt.Errorf("device command table schema: %w", err)
		}
		c.schema = s
		return s, nil
	}

	log.Debug().Err(err).Str("device", c.deviceType).Msg("device publishes no command table schema, using bundled one")
	s, err := commandtable.DefaultSchema(c.deviceType)
	if err != nil {
		return nil, err
	}
	c.schema = s

	return s, nil
}

// NewCommandTable returns an empty builder for the device schema.
func (c *Core) NewCommandTable(ctx context.Context) (*commandtable.Builder, error) {
	s, err := c.CommandTableSchema(ctx)
	if err != nil {
		return nil, err
	}

	return commandtable.NewBuilder(s), nil
}

// UploadCommandTable writes a validated document and checks the device
// accepted it.
func (c *Core) UploadCommandTable(ctx context.Context, doc *commandtable.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return c.upload(ctx, raw)
}

// UploadRawCommandTable writes an encoded command table. With validate set
// the table is checked against the device schema first.
func (c *Core) UploadRawCommandTable(ctx context.Context, raw []byte, validate bool) error {
	if !validate {
		return c.upload(ctx, raw)
	}

	b, err := c.NewCommandTable(ctx)
	if err != nil {
		return err
	}
	if err := b.Update(raw); err != nil {
		return err
	}
	doc, err := b.Document()
	if err != nil {
		return err
	}

	return c.UploadCommandTable(ctx, doc)
}

func (c *Core) upload(ctx context.Context, raw []byte) error {
	if err := c.conn.SetVector(ctx, c.node("commandtable/data"), raw); err != nil {
		return fmt.Errorf("write command table: %w", err)
	}
	if _, err := c.CommandTableLoaded(ctx); err != nil {
		return err
	}
	log.Debug().Str("core", c.root).Int("bytes", len(raw)).Msg("command table uploaded")

	return nil
}

// CommandTableLoaded reads the command table status. It reports whether a
// valid table is loaded and fails with ErrCommandTableParse when the last
// upload could not be parsed.
func (c *Core) CommandTableLoaded(ctx context.Context) (bool, error) {
	status, err := c.conn.GetInt(ctx, c.node("commandtable/status"))
	if err != nil {
		return false, fmt.Errorf("read command table status: %w", err)
	}
	if status>>3 != 0 {
		return false, fmt.Errorf("%w: status %d", ErrCommandTableParse, status)
	}

	return status == 1, nil
}

// LoadCommandTable reads the table currently on the device into a builder.
func (c *Core) LoadCommandTable(ctx context.Context) (*commandtable.Builder, error) {
	b, err := c.NewCommandTable(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.conn.GetVector(ctx, c.node("commandtable/data"))
	if err != nil {
		return nil, fmt.Errorf("read command table: %w", err)
	}
	if err := b.Update(raw); err != nil {
		return nil, err
	}

	return b, nil
}
