// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through oggvorbis. Samples are
// interleaved in the file's own channel order.
package vorbis
