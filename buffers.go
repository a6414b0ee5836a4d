package statsd

/*

Copyright (c) 2017 Andrey Smirnov

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

*/

import "net"

// flushSliceSize is the capacity of each intermediate slice used while
// accumulating one flush cycle.
const flushSliceSize = 16 * 1024

// lineMargin is the worst case one encoded line adds beyond the prefix and
// metric name: separators, unit and a 20-digit 64-bit decimal, with room to
// spare.
const lineMargin = 40

// flushBuffer accumulates encoded statsd lines across one flush cycle. Lines
// land in fixed-capacity slices with a single write cursor; when the active
// slice cannot hold the next line it is sealed and a fresh one is opened. The
// concatenation of sealed slices, in order, is the exact byte stream for the
// transport, so rotation is invisible at the connection boundary.
//
// A single line longer than one slice is unsupported; metric names are
// assumed to be far under the slice capacity.
type flushBuffer struct {
	sealed    net.Buffers
	active    []byte
	committed int
}

// begin opens a flush cycle by allocating the active slice. With expectEmpty
// set it requires that no bytes from a previous cycle are still committed;
// either violation is a broken caller contract.
func (b *flushBuffer) begin(expectEmpty bool) {
	if expectEmpty && b.committed > 0 {
		panic("statsd: flush cycle opened with committed bytes pending")
	}
	if b.active != nil {
		panic("statsd: flush cycle already open")
	}

	b.active = make([]byte, 0, flushSliceSize)
}

// writeStat encodes one line into the active slice, sealing it and rotating
// to a fresh slice first when the worst case for this line does not fit.
func (b *flushBuffer) writeStat(prefix, name string, value uint64, unit []byte) {
	if b.active == nil {
		panic("statsd: write outside of a flush cycle")
	}

	if cap(b.active)-len(b.active) < len(prefix)+len(name)+lineMargin {
		b.seal()
		b.begin(false)
	}

	b.active = appendStat(b.active, prefix, name, value, unit)
}

// seal commits the active slice to the cycle's ordered sequence and clears
// the cursor.
func (b *flushBuffer) seal() {
	if b.active == nil {
		panic("statsd: no open flush cycle")
	}

	b.committed += len(b.active)
	b.sealed = append(b.sealed, b.active)
	b.active = nil
}

// detach hands over all committed slices and resets the buffer for the next
// cycle.
func (b *flushBuffer) detach() net.Buffers {
	out := b.sealed
	b.sealed = nil
	b.committed = 0

	return out
}
