// SPDX-License-Identifier: EPL-2.0

package awg

import (
	"context"
	"strings"
	"sync"

	"github.com/ik5/awgkit/commandtable"
	"github.com/ik5/awgkit/waveform"
)

// Connection reads and writes device nodes by path.
type Connection interface {
	GetInt(ctx context.Context, path string) (int64, error)
	GetString(ctx context.Context, path string) (string, error)
	GetVector(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, value any) error
	SetVector(ctx context.Context, path string, data []byte) error
}

// vectorBatcher is implemented by connections that can write several
// vectors as one transaction.
type vectorBatcher interface {
	SetVectors(ctx context.Context, vectors map[string][]byte) error
}

// Core drives one AWG core of a device, rooted at a node path such as
// "/dev8000/awgs/0".
type Core struct {
	conn       Connection
	root       string
	deviceType string
	markerBits int

	mu     sync.Mutex
	schema *commandtable.Schema
}

// Option customises a Core.
type Option func(*Core)

// WithMarkerBits sets the marker bits used to encode and decode waveform
// memory.
func WithMarkerBits(bits int) Option {
	return func(c *Core) { c.markerBits = bits }
}

// New returns a Core for the AWG core at root of a device of deviceType,
// for example "HDAWG8".
func New(conn Connection, root, deviceType string, opts ...Option) *Core {
	c := &Core{
		conn:       conn,
		root:       strings.ToLower(strings.TrimRight(root, "/")),
		deviceType: deviceType,
		markerBits: waveform.DefaultMarkerBits,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Root is the node path of the core.
func (c *Core) Root() string { return c.root }

// DeviceType is the device type the core belongs to.
func (c *Core) DeviceType() string { return c.deviceType }

func (c *Core) node(rel string) string { return c.root + "/" + rel }
