// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/ik5/wavepeaks/view"
)

// render draws every channel of v as height text rows, one column per view
// index. The top row is full scale positive.
func render(w io.Writer, v view.View, height int) error {
	bw := bufio.NewWriter(w)
	zero := rowOf(0, height)
	line := make([]rune, v.Len())

	for ch := range v.Channels() {
		if ch > 0 {
			bw.WriteByte('\n')
		}

		for row := range height {
			for i := range line {
				lo, hi := v.MinMax(ch, int64(i))
				switch {
				case rowOf(hi, height) <= row && row <= rowOf(lo, height):
					line[i] = '█'
				case row == zero:
					line[i] = '─'
				default:
					line[i] = ' '
				}
			}
			bw.WriteString(strings.TrimRight(string(line), " "))
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}

func rowOf(v int8, height int) int {
	return (127 - int(v)) * height / 256
}
