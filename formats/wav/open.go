// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/wavepeaks/pcm"
)

// OpenPCM locates the sample data of the WAV file at path and returns a
// random-access reader over it. Chunks may come in any order. A data chunk
// whose size was never patched, as left by an interrupted recording, is
// taken to run to the end of the file.
func OpenPCM(path string) (*pcm.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	d := gowav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if d.NumChans == 0 {
		return nil, ErrNotWavFile
	}
	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, d.WavAudioFormat)
	}

	format := pcm.Format{
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		SampleRate: int(d.SampleRate),
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}
	if d.PCMChunk == nil {
		return nil, ErrUnsupportedWavChunks
	}

	// FwdToPCM stops right after the data chunk header
	offset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	size := d.PCMLen()
	if avail := fi.Size() - offset; size == 0 || size > avail {
		size = avail
	}

	return pcm.NewFile(path, offset, format, size/int64(format.FrameSize()))
}
