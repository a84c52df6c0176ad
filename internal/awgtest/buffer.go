// SPDX-License-Identifier: EPL-2.0

package awgtest

import (
	"errors"
	"io"
)

var errNegativeOffset = errors.New("negative offset")

// WriteSeeker is an in-memory io.WriteSeeker for encoders that patch
// their headers after writing.
type WriteSeeker struct {
	buf []byte
	pos int
}

func (w *WriteSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)

	return len(p), nil
}

func (w *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(w.pos)
	case io.SeekEnd:
		base = int64(len(w.buf))
	}
	next := base + offset
	if next < 0 {
		return 0, errNegativeOffset
	}
	w.pos = int(next)

	return next, nil
}

// Bytes returns everything written so far.
func (w *WriteSeeker) Bytes() []byte { return w.buf }
