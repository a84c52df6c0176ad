// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	defaultsMu sync.Mutex
	defaults   = map[string]*Schema{}
)

// Family maps a device type such as "HDAWG8" or "SHFQC" onto the name of
// its command table schema.
func Family(deviceType string) (string, error) {
	name := strings.TrimRight(strings.ToLower(strings.TrimSpace(deviceType)), "0123456789")
	switch name {
	case "hdawg":
		return "hdawg", nil
	case "shfsg", "shfqc":
		return "shfsg", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDevice, deviceType)
}

// DefaultSchema returns the bundled schema for a device type. Schemas are
// compiled once and shared.
func DefaultSchema(deviceType string) (*Schema, error) {
	family, err := Family(deviceType)
	if err != nil {
		return nil, err
	}

	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if s, ok := defaults[family]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile("schemas/ct_schema_" + family + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, deviceType)
	}
	s, err := LoadSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("bundled %s schema: %w", family, err)
	}
	defaults[family] = s
	return s, nil
}
