// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	ErrNotAiffFile      = errors.New("not an AIFF file")
	ErrUnsupportedDepth = errors.New("unsupported AIFF bit depth")
	ErrLayout           = errors.New("unsupported AIFF layout")
)
