// SPDX-License-Identifier: EPL-2.0

package mp3stream

import "errors"

var (
	// ErrNoValidFrames reports that no decodable MPEG audio frame was
	// found while priming the stream.
	ErrNoValidFrames = errors.New("no decodable MPEG audio frame found")
)
