// SPDX-License-Identifier: EPL-2.0

package peak

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ik5/wavepeaks/view"
)

// Store is a peak summary held in memory. It is a view.View with one
// displayable index per snapshot.
type Store struct {
	hdr Header
	buf *view.Buffer
}

// NewStore validates h and wraps data, the interleaved (min, max) pairs.
func NewStore(h Header, data []int8) (*Store, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if int64(len(data)) != h.DataSize() {
		return nil, fmt.Errorf("%w: %d data bytes, header wants %d", ErrLengthMismatch, len(data), h.DataSize())
	}

	return &Store{
		hdr: h,
		buf: view.NewBuffer(h.Channels, h.RealLength, data),
	}, nil
}

// Read decodes a peak file of size bytes from r.
func Read(r io.ReaderAt, size int64) (*Store, error) {
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a header", ErrLengthMismatch, size)
	}

	hb := make([]byte, HeaderSize)
	if n, err := r.ReadAt(hb, 0); n != len(hb) {
		return nil, fmt.Errorf("reading peak header: %w", err)
	}

	var h Header
	if err := h.UnmarshalBinary(hb); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if size != h.FileSize() {
		return nil, fmt.Errorf("%w: file is %d bytes, header wants %d", ErrLengthMismatch, size, h.FileSize())
	}

	raw := make([]byte, h.DataSize())
	if n, err := r.ReadAt(raw, HeaderSize); n != len(raw) {
		return nil, fmt.Errorf("reading peak data: %w", err)
	}

	data := make([]int8, len(raw))
	for i, b := range raw {
		data[i] = int8(b)
	}

	return NewStore(h, data)
}

// Open reads the peak file at path.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return Read(f, fi.Size())
}

// Summarize synthesizes a store from any view. Each snapshot covers interval
// indexes of v, which is interval*ZoomFactor(v) frames of the original audio.
// modTime is recorded as is.
func Summarize(v view.View, interval int, modTime int64) (*Store, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval %d", ErrFormat, interval)
	}

	frames := max(int(math.Round(float64(interval)*view.ZoomFactor(v))), 1)
	snapshots := SnapshotsFor(v.RealLength(), frames)

	var reduced *view.Buffer
	if b := view.BlockReduce(v, int64(interval)); b.Len() == snapshots {
		reduced = b
	} else {
		// rounding the zoom moved the snapshot count
		reduced = view.Materialize(view.Reduce(v, int(snapshots)))
	}

	h := Header{
		Interval:   frames,
		ModTime:    modTime,
		RealLength: v.RealLength(),
		Channels:   v.Channels(),
		Snapshots:  snapshots,
	}

	return NewStore(h, reduced.Data())
}

func (s *Store) Header() Header    { return s.hdr }
func (s *Store) Interval() int64   { return int64(s.hdr.Interval) }
func (s *Store) Channels() int     { return s.hdr.Channels }
func (s *Store) RealLength() int64 { return s.hdr.RealLength }
func (s *Store) Len() int64        { return s.hdr.Snapshots }

func (s *Store) MinMax(channel int, index int64) (int8, int8) {
	return s.buf.MinMax(channel, index)
}

// Stale reports whether the store was built from a source other than one
// last modified at modTime.
func (s *Store) Stale(modTime time.Time) bool {
	return s.hdr.ModTime == UnknownTime || s.hdr.ModTime != ModTimeMillis(modTime)
}

// WriteTo encodes the store in the peak file format.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	hb, err := s.hdr.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	bw := bufio.NewWriter(w)
	n, err := bw.Write(hb)
	written := int64(n)
	if err != nil {
		return written, fmt.Errorf("%w", err)
	}

	for _, b := range s.buf.Data() {
		if err := bw.WriteByte(byte(b)); err != nil {
			return written, fmt.Errorf("%w", err)
		}
		written++
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("%w", err)
	}

	return written, nil
}
