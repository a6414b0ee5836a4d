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

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushBufferRotation(t *testing.T) {
	var buf flushBuffer

	var expected bytes.Buffer
	buf.begin(true)
	for i := 0; i < 3000; i++ {
		buf.writeStat("envoy.", "test_counter", uint64(i), unitCounter)
		expected.WriteString("envoy.test_counter:" + strconv.Itoa(i) + "|c\n")
	}
	buf.seal()

	out := buf.detach()
	require.Greater(t, len(out), 1, "this many lines must have rotated slices")

	var got []byte
	for _, slice := range out {
		assert.LessOrEqual(t, len(slice), flushSliceSize)
		got = append(got, slice...)
	}
	assert.Equal(t, expected.String(), string(got),
		"rotation must be invisible in the concatenated stream")

	// The buffer is ready for the next cycle.
	buf.begin(true)
	buf.writeStat("envoy.", "test_gauge", 7, unitGauge)
	buf.seal()
	assert.Equal(t, "envoy.test_gauge:7|g\n", string(bytes.Join(buf.detach(), nil)))
}

func TestFlushBufferEmptyCycle(t *testing.T) {
	var buf flushBuffer

	buf.begin(true)
	buf.seal()

	out := buf.detach()
	assert.Empty(t, bytes.Join(out, nil))

	// An empty committed cycle does not count as pending data.
	buf.begin(true)
	buf.seal()
}

func TestFlushBufferContract(t *testing.T) {
	var buf flushBuffer

	assert.Panics(t, func() { buf.writeStat("envoy.", "x", 1, unitCounter) },
		"write before begin")
	assert.Panics(t, func() { buf.seal() },
		"seal before begin")

	buf.begin(true)
	assert.Panics(t, func() { buf.begin(true) },
		"begin while a cycle is open")

	buf.writeStat("envoy.", "x", 1, unitCounter)
	buf.seal()

	// Committed bytes pending: a cycle that expects an empty buffer must fail
	// fast instead of silently mixing cycles.
	assert.Panics(t, func() { buf.begin(true) })

	// Reopening without the emptiness requirement continues the same cycle.
	buf.begin(false)
	buf.writeStat("envoy.", "y", 2, unitCounter)
	buf.seal()
	assert.Equal(t, "envoy.x:1|c\nenvoy.y:2|c\n", string(bytes.Join(buf.detach(), nil)))
}
