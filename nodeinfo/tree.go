// SPDX-License-Identifier: EPL-2.0

package nodeinfo

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

//go:embed resources/awg_nodes.json
var resources embed.FS

// Tree maps lower case node paths to their metadata. Keys may contain
// glob patterns that describe a family of dynamic nodes.
type Tree map[string]Info

// Parse decodes a node listing of the form {"/path": {...}, ...}.
func Parse(raw []byte) (Tree, error) {
	var doc map[string]Info
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse node info: %w", err)
	}

	t := make(Tree, len(doc))
	for path, info := range doc {
		key := strings.ToLower(path)
		if info.Node == "" {
			info.Node = key
		}
		t[key] = info
	}

	return t, nil
}

// AWG returns the metadata of an AWG core's nodes rooted at prefix, for
// example "/dev8000/awgs/0".
func AWG(prefix string) Tree {
	raw, err := resources.ReadFile("resources/awg_nodes.json")
	if err != nil {
		panic(err)
	}
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return t.Rebase(prefix)
}

// Rebase returns a copy of t with prefix put in front of every path.
func (t Tree) Rebase(prefix string) Tree {
	prefix = strings.ToLower(strings.TrimRight(prefix, "/"))
	out := make(Tree, len(t))
	for path, info := range t {
		info.Node = prefix + path
		out[prefix+path] = info
	}

	return out
}

// Lookup finds the metadata for a concrete node. Exact keys win over
// pattern keys.
func (t Tree) Lookup(path string) (Info, bool) {
	key := strings.ToLower(path)
	if info, ok := t[key]; ok {
		return info, true
	}
	for _, pattern := range t.Paths() {
		if HasWildcard(pattern) && Match(pattern, key) {
			info := t[pattern]
			info.Node = key
			return info, true
		}
	}

	return Info{}, false
}

// Matching returns the subtree below pattern. "*" selects everything.
func (t Tree) Matching(pattern string) Tree {
	out := Tree{}
	if pattern == "*" {
		maps.Copy(out, t)
		return out
	}
	pattern = strings.ToLower(pattern) + "*"
	for path, info := range t {
		if Match(pattern, path) {
			out[path] = info
		}
	}

	return out
}

// Paths lists the keys of t, sorted.
func (t Tree) Paths() []string {
	return slices.Sorted(maps.Keys(t))
}

// Merge copies every node of other into t.
func (t Tree) Merge(other Tree) {
	maps.Copy(t, other)
}
