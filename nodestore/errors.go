// SPDX-License-Identifier: EPL-2.0

package nodestore

import "errors"

var (
	ErrNotFound    = errors.New("node not found")
	ErrReadOnly    = errors.New("node is read only")
	ErrWriteOnly   = errors.New("node is write only")
	ErrType        = errors.New("value has the wrong type for node")
	ErrUnknownEnum = errors.New("unknown option name")
	ErrWildcard    = errors.New("wildcards not allowed here")
)
