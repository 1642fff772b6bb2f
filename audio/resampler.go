// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/wavepeaks/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom cubic
// interpolation over interleaved frames. Downsampling runs every input frame
// through a one-pole low-pass first.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window holds frames t-1, t0, t+1, t+2 around the current position
	window [4][]float32
	have   [4]bool
	primed bool

	pos float64 // fractional position between window[1] and window[2]

	in  []float32
	eof bool

	lowPass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		in:       make([]float32, channels),
		lowPass:  ratio > 1,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames scales the source's frame count by the rate ratio.
func (r *Resampler) Frames() int64 {
	n := Frames(r.src)
	if n < 0 {
		return n
	}

	return int64(math.Ceil(float64(n) / r.ratio))
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// readFrame pulls one source frame into dst and reports whether one arrived.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.in)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return false, nil
	}

	copy(dst, r.in[:n])
	if r.lowPass {
		for c := range r.channels {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	for i := range r.window {
		ok, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		if ok {
			if i == 0 && r.lowPass {
				// start the filter at the first sample instead of silence
				copy(r.state, r.in)
				copy(r.window[0], r.in)
			}
			r.have[i] = true
			continue
		}

		// repeat the last frame into the remaining slots
		for j := i; j < len(r.window) && i > 0; j++ {
			copy(r.window[j], r.window[i-1])
			r.have[j] = true
		}
		break
	}

	return nil
}

func (r *Resampler) advance() error {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.have[0], r.have[1], r.have[2] = r.have[1], r.have[2], r.have[3]

	ok, err := r.readFrame(r.window[3])
	if err != nil {
		return err
	}
	r.have[3] = ok
	if !ok && !r.have[2] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces interleaved output frames. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst)/r.channels {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				if err == io.EOF {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.have[1] || !r.have[2] {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		for c := range r.channels {
			y0, y3 := r.window[1][c], r.window[2][c]
			if r.have[0] {
				y0 = r.window[0][c]
			}
			if r.have[3] {
				y3 = r.window[3][c]
			}
			dst[written*r.channels+c] = utils.CubicInterpolate(y0, r.window[1][c], r.window[2][c], y3, x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
