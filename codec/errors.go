// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrUnderflow reports that the current frame extends past the
	// supplied input window. The caller should refill and retry.
	ErrUnderflow = errors.New("frame payload extends past available input")

	// ErrInvalidData reports input that cannot be decoded as a frame.
	ErrInvalidData = errors.New("invalid frame data")
)
