// SPDX-License-Identifier: EPL-2.0

package view

// Iterator walks a view sequentially. A new or rewound iterator sits before
// the first index; call Next before reading.
type Iterator struct {
	v   View
	pos int64
}

func NewIterator(v View) *Iterator {
	return &Iterator{v: v, pos: -1}
}

func (it *Iterator) Rewind() { it.pos = -1 }

// Next advances the cursor and reports false at the end of the view.
func (it *Iterator) Next() bool {
	if it.pos+1 >= it.v.Len() {
		it.pos = it.v.Len()
		return false
	}
	it.pos++

	return true
}

func (it *Iterator) Position() int64 { return it.pos }

func (it *Iterator) MinMax(channel int) (int8, int8) {
	return it.v.MinMax(channel, it.pos)
}
