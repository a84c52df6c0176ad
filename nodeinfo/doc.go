// SPDX-License-Identifier: EPL-2.0

// Package nodeinfo describes device nodes: whether they can be read or
// written, their type and unit, and the names of enumerated values.
//
// Node paths are case insensitive and stored lower case. Metadata for
// dynamic node families such as waveform slots is keyed by a glob pattern.
package nodeinfo
