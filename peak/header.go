// SPDX-License-Identifier: EPL-2.0

package peak

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// Magic tags every peak file.
	Magic = "WVPK"

	// HeaderSize is the fixed length of the encoded header in bytes.
	HeaderSize = 34

	// UnknownTime marks a header whose source modification time is not known,
	// which is also how a file still being recorded is written.
	UnknownTime int64 = -1
)

// Header describes a peak file.
//
// Layout, little-endian:
//
//	offset size field
//	0      4    magic "WVPK"
//	4      4    interval (frames per snapshot)
//	8      8    source modification time, Unix ms, or -1
//	16     8    real length (frames)
//	24     2    channels
//	26     8    snapshot count
//	34     ...  snapshots*channels*2 signed bytes, (min, max) per channel
type Header struct {
	Interval   int
	ModTime    int64
	RealLength int64
	Channels   int
	Snapshots  int64
}

// ModTimeMillis converts t to the header's time representation.
func ModTimeMillis(t time.Time) int64 {
	if t.IsZero() {
		return UnknownTime
	}

	return t.UnixMilli()
}

// SnapshotsFor is ceil(realLength/interval).
func SnapshotsFor(realLength int64, interval int) int64 {
	return (realLength + int64(interval) - 1) / int64(interval)
}

// DataSize is the length of the pair array that follows the header.
func (h Header) DataSize() int64 {
	return h.Snapshots * int64(h.Channels) * 2
}

// FileSize is the only valid length of a file carrying h.
func (h Header) FileSize() int64 {
	return HeaderSize + h.DataSize()
}

// Validate checks the header against its own stated lengths.
func (h Header) Validate() error {
	if h.Channels <= 0 || h.Channels > 0xffff {
		return fmt.Errorf("%w: %d channels", ErrFormat, h.Channels)
	}
	if h.Interval <= 0 || int64(h.Interval) > 0xffffffff {
		return fmt.Errorf("%w: interval %d", ErrFormat, h.Interval)
	}
	if h.RealLength < 0 {
		return fmt.Errorf("%w: negative length %d", ErrFormat, h.RealLength)
	}
	if want := SnapshotsFor(h.RealLength, h.Interval); h.Snapshots != want {
		return fmt.Errorf("%w: %d snapshots for %d frames at interval %d, want %d",
			ErrFormat, h.Snapshots, h.RealLength, h.Interval, want)
	}

	return nil
}

// MarshalBinary encodes h. It does not validate.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)

	copy(b[0:4], Magic)
	binary.LittleEndian.PutUint32(b[4:8], uint32(h.Interval))
	binary.LittleEndian.PutUint64(b[8:16], uint64(h.ModTime))
	binary.LittleEndian.PutUint64(b[16:24], uint64(h.RealLength))
	binary.LittleEndian.PutUint16(b[24:26], uint16(h.Channels))
	binary.LittleEndian.PutUint64(b[26:34], uint64(h.Snapshots))

	return b, nil
}

// UnmarshalBinary decodes a header and checks the magic tag.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes", ErrLengthMismatch, len(b))
	}
	if string(b[0:4]) != Magic {
		return ErrBadMagic
	}

	h.Interval = int(binary.LittleEndian.Uint32(b[4:8]))
	h.ModTime = int64(binary.LittleEndian.Uint64(b[8:16]))
	h.RealLength = int64(binary.LittleEndian.Uint64(b[16:24]))
	h.Channels = int(binary.LittleEndian.Uint16(b[24:26]))
	h.Snapshots = int64(binary.LittleEndian.Uint64(b[26:34]))

	return nil
}
