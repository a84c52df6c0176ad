// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/nodeinfo"
)

// Hook runs after a successful write to a node matching its pattern. It
// runs without the store lock held and may write to the store.
type Hook func(ctx context.Context, s *Store, path string, value any)

type hook struct {
	pattern string
	fn      Hook
}

// Store is an in-memory set of device nodes addressed by path. Values are
// int64, float64, string or []byte. It stands in for a device connection
// and is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	info   nodeinfo.Tree
	hooks  []hook
}

// New returns an empty store. info may be nil; when a node has metadata,
// writes honour its access properties and enum option names.
func New(info nodeinfo.Tree) *Store {
	if info == nil {
		info = nodeinfo.Tree{}
	}

	return &Store{values: map[string]any{}, info: info}
}

// Info returns the metadata the store enforces.
func (s *Store) Info() nodeinfo.Tree { return s.info }

// OnSet registers fn for writes to nodes matching pattern.
func (s *Store) OnSet(pattern string, fn Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, hook{pattern: strings.ToLower(pattern), fn: fn})
}

// Seed stores a value without access checks or hooks, the way a device
// updates its own read-only nodes.
func (s *Store) Seed(path string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[strings.ToLower(path)] = v

	return nil
}

// Set writes a scalar value. Strings naming an enum option of the node are
// stored as the option's integer key.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if nodeinfo.HasWildcard(path) {
		return fmt.Errorf("%w: set %s", ErrWildcard, path)
	}
	key := strings.ToLower(path)

	info, known := s.info.Lookup(key)
	if known && !info.Writable() {
		return fmt.Errorf("%w: %s", ErrReadOnly, path)
	}
	if name, ok := value.(string); ok && known && len(info.RawOptions) > 0 {
		k, ok := info.OptionKey(name)
		if !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnknownEnum, name, path)
		}
		value = int64(k)
	}

	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.mu.Lock()
	s.values[key] = v
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	log.Debug().Str("node", key).Msg("node set")

	for _, h := range hooks {
		if nodeinfo.Match(h.pattern, key) {
			h.fn(ctx, s, key, v)
		}
	}

	return nil
}

// SetVector writes binary vector data.
func (s *Store) SetVector(ctx context.Context, path string, data []byte) error {
	return s.Set(ctx, path, slices.Clone(data))
}

// SetVectors writes several vectors as one transaction: every path is
// checked before any of them is written.
func (s *Store) SetVectors(ctx context.Context, vectors map[string][]byte) error {
	paths := slices.Sorted(maps.Keys(vectors))
	for _, path := range paths {
		if nodeinfo.HasWildcard(path) {
			return fmt.Errorf("%w: set %s", ErrWildcard, path)
		}
		if info, ok := s.info.Lookup(path); ok && !info.Writable() {
			return fmt.Errorf("%w: %s", ErrReadOnly, path)
		}
	}
	for _, path := range paths {
		if err := s.SetVector(ctx, path, vectors[path]); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the value of every node matching path, keyed by node path.
func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]any{}
	if !nodeinfo.HasWildcard(key) {
		v, ok := s.values[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		out[key] = copyValue(v)
		return out, nil
	}
	for node, v := range s.values {
		if nodeinfo.Match(key, node) {
			out[node] = copyValue(v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return out, nil
}

func (s *Store) get(ctx context.Context, path string) (any, error) {
	if nodeinfo.HasWildcard(path) {
		return nil, fmt.Errorf("%w: get %s", ErrWildcard, path)
	}
	m, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if info, ok := s.info.Lookup(path); ok && !info.Readable() {
		return nil, fmt.Errorf("%w: %s", ErrWriteOnly, path)
	}

	return m[strings.ToLower(path)], nil
}

// GetInt reads an integer node. Floats are truncated.
func (s *Store) GetInt(ctx context.Context, path string) (int64, error) {
	v, err := s.get(ctx, path)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	}

	return 0, fmt.Errorf("%w: %s holds %T", ErrType, path, v)
}

// GetDouble reads a numeric node.
func (s *Store) GetDouble(ctx context.Context, path string) (float64, error) {
	v, err := s.get(ctx, path)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	}

	return 0, fmt.Errorf("%w: %s holds %T", ErrType, path, v)
}

// GetString reads a string node. Vector nodes are returned as text.
func (s *Store) GetString(ctx context.Context, path string) (string, error) {
	v, err := s.get(ctx, path)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	}

	return "", fmt.Errorf("%w: %s holds %T", ErrType, path, v)
}

// GetVector reads a vector node. String nodes are returned as bytes.
func (s *Store) GetVector(ctx context.Context, path string) ([]byte, error) {
	v, err := s.get(ctx, path)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}

	return nil, fmt.Errorf("%w: %s holds %T", ErrType, path, v)
}

// Paths lists every stored node, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.values))
}

// ListNodesJSON encodes the metadata of every node below pattern.
func (s *Store) ListNodesJSON(pattern string) ([]byte, error) {
	b, err := json.Marshal(s.info.Matching(pattern))
	if err != nil {
		return nil, fmt.Errorf("list nodes %s: %w", pattern, err)
	}

	return b, nil
}

func normalize(value any) (any, error) {
	switch x := value.(type) {
	case int64, string:
		return x, nil
	case []byte:
		return slices.Clone(x), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v", ErrType, x)
		}
		return x, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrType, value)
}

func copyValue(v any) any {
	if b, ok := v.([]byte); ok {
		return slices.Clone(b)
	}

	return v
}
