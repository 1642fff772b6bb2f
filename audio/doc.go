// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming side of wavepeaks: decoded audio as
// a forward-only Source of normalized float32 samples, plus the stages that
// reshape it before it is spooled or summarized.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples fills dst with interleaved samples in [-1, 1] and returns the
// number of values written, not frames.
//
// Sources that know their length up front also implement Lengther. Frames
// asks any source for it and returns -1 when the length is unknown; peak
// file builds use it to announce their total before reading.
//
// # Reshaping
//
// Resampler converts between sample rates with Catmull-Rom interpolation,
// low-pass filtering first when downsampling. MonoMixer averages all
// channels into one. Both pass Frames through, scaled where needed:
//
//	src = audio.NewMonoMixer(audio.NewResampler(src, 16000))
//
// # Registry
//
// A Registry maps format keys, usually file extensions, to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("mp3", mp3.Decoder{})
//	dec, ok := reg.Get("mp3")
//
// It is safe for concurrent use.
package audio
