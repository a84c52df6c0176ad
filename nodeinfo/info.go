// SPDX-License-Identifier: EPL-2.0

package nodeinfo

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// optionNames pulls the quoted enum names from an option description such
// as `"off", "stopped": Sequencer idle`.
var optionNames = regexp.MustCompile(`"(.+?)"[,:]+`)

// Info is the metadata a device publishes for one leaf node.
type Info struct {
	Node        string            `json:"Node,omitempty"`
	Description string            `json:"Description"`
	Properties  string            `json:"Properties"`
	Type        string            `json:"Type"`
	Unit        string            `json:"Unit"`
	RawOptions  map[string]string `json:"Options,omitempty"`
}

// Readable reports whether the node can be read.
func (i Info) Readable() bool { return i.hasProperty("Read") }

// Writable reports whether the node can be written.
func (i Info) Writable() bool { return i.hasProperty("Write") }

// IsSetting reports whether the node is saved with the device settings.
func (i Info) IsSetting() bool { return i.hasProperty("Setting") }

// IsVector reports whether the node holds vector data.
func (i Info) IsVector() bool { return strings.Contains(i.Type, "Vector") }

func (i Info) hasProperty(p string) bool {
	for part := range strings.SplitSeq(i.Properties, ",") {
		if strings.TrimSpace(part) == p {
			return true
		}
	}

	return false
}

// Option is one value of an enumerated node.
type Option struct {
	Key         int
	Names       []string
	Description string
}

// Options returns the enumerated values of the node ordered by key.
// Entries whose key is not an integer are skipped.
func (i Info) Options() []Option {
	out := make([]Option, 0, len(i.RawOptions))
	for key, raw := range i.RawOptions {
		k, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		opt := Option{Key: k, Description: strings.TrimSpace(raw)}
		if m := optionNames.FindAllStringSubmatchIndex(raw, -1); len(m) > 0 {
			for _, sub := range m {
				opt.Names = append(opt.Names, raw[sub[2]:sub[3]])
			}
			opt.Description = strings.TrimSpace(raw[m[len(m)-1][1]:])
		}
		out = append(out, opt)
	}
	slices.SortFunc(out, func(a, b Option) int { return a.Key - b.Key })

	return out
}

// OptionKey maps an enum name such as "on" to its integer key.
func (i Info) OptionKey(name string) (int, bool) {
	for _, opt := range i.Options() {
		if slices.Contains(opt.Names, name) {
			return opt.Key, true
		}
	}

	return 0, false
}
