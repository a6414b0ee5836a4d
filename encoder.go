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

import "strconv"

// Wire units of the statsd line protocol. Histograms reuse the timer unit.
var (
	unitCounter = []byte("c")
	unitGauge   = []byte("g")
	unitTimer   = []byte("ms")
)

// appendStat appends one encoded statsd line to dst and returns the extended
// slice, following the append convention so callers control allocation:
//
//	<prefix><name>:<value>|<unit>\n
//
// The value is always plain unsigned decimal.
func appendStat(dst []byte, prefix, name string, value uint64, unit []byte) []byte {
	dst = append(dst, prefix...)
	dst = append(dst, name...)
	dst = append(dst, ':')
	dst = strconv.AppendUint(dst, value, 10)
	dst = append(dst, '|')
	dst = append(dst, unit...)
	dst = append(dst, '\n')

	return dst
}
