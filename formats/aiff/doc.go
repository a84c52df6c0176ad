// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes integer PCM AIFF files through go-audio/aiff.
package aiff
