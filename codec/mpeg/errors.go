// SPDX-License-Identifier: EPL-2.0

package mpeg

import "errors"

var (
	ErrShortHeader   = errors.New("need at least 4 bytes of header")
	ErrInvalidHeader = errors.New("not a valid MPEG audio frame header")
)
