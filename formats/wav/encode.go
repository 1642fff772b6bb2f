// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/wavepeaks/audio"
	"github.com/ik5/wavepeaks/utils"
)

// Encode drains src into w as 16-bit PCM WAV and returns the number of
// frames written. w is not closed.
func Encode(w io.WriteSeeker, src audio.Source) (int64, error) {
	channels := src.Channels()
	enc := gowav.NewEncoder(w, src.SampleRate(), 16, channels, formatPCM)

	bufSize := max(src.BufSize(), 1024) / channels * channels
	samples := make([]float32, bufSize)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		Data:           make([]int, 0, bufSize),
		SourceBitDepth: 16,
	}

	var frames int64
	for {
		n, err := src.ReadSamples(samples)
		if err != nil && err != io.EOF {
			return frames, fmt.Errorf("%w", err)
		}

		n = n / channels * channels
		buf.Data = buf.Data[:n]
		for i, x := range samples[:n] {
			buf.Data[i] = int(utils.Float32ToInt16(x))
		}

		// the first Write also emits the data chunk header, even when empty
		if n > 0 || frames == 0 {
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("%w", werr)
			}
		}
		frames += int64(n / channels)

		if err == io.EOF || n == 0 {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("%w", err)
	}

	return frames, nil
}
