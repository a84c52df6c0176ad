// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/nodeinfo"
)

// Command table status values reported by EmulateAWG.
const (
	StatusUploaded   = 1
	StatusParseError = 1 << 3
)

// NewAWG returns a store holding the nodes of one AWG core at root with
// the device side behaviour of EmulateAWG.
func NewAWG(root string) *Store {
	s := New(nodeinfo.AWG(root))
	EmulateAWG(s, root)

	return s
}

// EmulateAWG makes s react to uploads the way an AWG core does: a command
// table write updates the table status and a program image write raises
// the ready flag.
func EmulateAWG(s *Store, root string) {
	root = strings.ToLower(strings.TrimRight(root, "/"))

	_ = s.Seed(root+"/ready", 0)
	_ = s.Seed(root+"/commandtable/status", 0)

	s.OnSet(root+"/commandtable/data", func(_ context.Context, s *Store, _ string, value any) {
		status := StatusUploaded
		if b, ok := value.([]byte); !ok || !json.Valid(b) {
			status = StatusParseError
		}
		_ = s.Seed(root+"/commandtable/status", status)
		log.Debug().Int("status", status).Msg("emulated command table upload")
	})
	s.OnSet(root+"/elf/data", func(_ context.Context, s *Store, _ string, value any) {
		ready := 0
		if b, ok := value.([]byte); ok && len(b) > 0 {
			ready = 1
		}
		_ = s.Seed(root+"/ready", ready)
	})
}
