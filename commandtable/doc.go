// SPDX-License-Identifier: EPL-2.0

// Package commandtable builds and validates sequencer command tables.
//
// A Schema is compiled from the JSON schema a device publishes. It fixes
// the node paths each table entry accepts and the rules their values
// follow. A Builder checks every write against the node it targets and
// rejects it with a *Violation, leaving the earlier value in place.
// Builder.Document then validates the whole table, including the rules
// that span several nodes, and reports every failure in one
// *DocumentError.
//
//	s, _ := commandtable.DefaultSchema("HDAWG8")
//	b := commandtable.NewBuilder(s)
//	_ = b.Set(0, "waveform.index", 0)
//	_ = b.Set(0, "amplitude0.value", 0.5)
//	doc, err := b.Document()
package commandtable
