// SPDX-License-Identifier: EPL-2.0

package mp3stream

import "io"

const (
	id3v2HeaderSize = 10
	id3v2Magic      = "ID3"
)

// skipID3v2 probes the start of src for an ID3v2 tag and seeks past it.
// It returns the tag's total size (header plus body), or 0 when no tag is
// present. On a magic mismatch the 10 probe bytes stay consumed; the
// frame sync search downstream tolerates the lost lead-in.
func skipID3v2(src io.ReadSeeker) (int64, error) {
	var header [id3v2HeaderSize]byte

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(src, header[:]); err != nil {
		return 0, err
	}

	if string(header[:len(id3v2Magic)]) != id3v2Magic {
		return 0, nil
	}

	// The tag size is a syncsafe integer: four big-endian bytes with the
	// most significant bit of each masked off. It excludes the 10-byte
	// header. The byte offsets come straight from the ID3v2 spec.
	size := int64(header[6]&0x7F)<<21 |
		int64(header[7]&0x7F)<<14 |
		int64(header[8]&0x7F)<<7 |
		int64(header[9]&0x7F)
	total := size + id3v2HeaderSize

	if _, err := src.Seek(total, io.SeekStart); err != nil {
		return 0, err
	}
	return total, nil
}
