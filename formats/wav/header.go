// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"math"

	"github.com/ik5/wavepeaks/pcm"
)

// HeaderSize is the length of a canonical header: RIFF, a 16-byte fmt chunk
// and the data chunk header.
const HeaderSize = 44

const (
	formatPCM        = 1
	formatExtensible = 0xfffe

	// maxDataSize keeps the RIFF size field, 36 + data, within 32 bits.
	maxDataSize = math.MaxUint32 - 36
)

// encodeHeader lays out a canonical header for dataSize bytes of audio.
func encodeHeader(format pcm.Format, dataSize uint32) []byte {
	blockAlign := format.FrameSize()
	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(format.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(format.BitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	return header
}
