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
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// UDPSink sends one datagram per observation to a statsd collector. There is
// no batching and no delivery guarantee: a datagram that cannot be sent is
// dropped. Each worker owns one connected datagram socket, created on the
// worker's first metric and held for the worker's lifetime.
type UDPSink struct {
	options SinkOptions
	workers Slot
}

// NewUDPSink creates a sink sending to the resolved collector address.
func NewUDPSink(workers SlotAllocator, address net.Addr, opt ...Option) *UDPSink {
	s := &UDPSink{options: defaultOptions()}

	for _, option := range opt {
		option(&s.options)
	}

	s.workers = workers.AllocateSlot(func(Dispatcher) io.Closer {
		return newUDPWriter(address, s.options.Logger)
	})

	return s
}

// BeginFlush is a no-op: the UDP sink does not batch.
func (s *UDPSink) BeginFlush() {}

// EndFlush is a no-op: the UDP sink does not batch.
func (s *UDPSink) EndFlush() {}

// FlushCounter sends one counter delta as a standalone datagram.
func (s *UDPSink) FlushCounter(name string, delta uint64) {
	s.writer().writeStat(s.options.MetricPrefix, name, delta, unitCounter)
}

// FlushGauge sends one gauge value as a standalone datagram.
func (s *UDPSink) FlushGauge(name string, value uint64) {
	s.writer().writeStat(s.options.MetricPrefix, name, value, unitGauge)
}

// OnTimespanComplete sends one timer observation, in whole milliseconds.
func (s *UDPSink) OnTimespanComplete(name string, duration time.Duration) {
	s.writer().writeStat(s.options.MetricPrefix, name,
		uint64(duration/time.Millisecond), unitTimer)
}

// OnHistogramComplete sends one histogram observation. For statsd histograms
// are just timers.
func (s *UDPSink) OnHistogramComplete(name string, value uint64) {
	s.OnTimespanComplete(name, time.Duration(value)*time.Millisecond)
}

func (s *UDPSink) writer() *udpWriter {
	return s.workers.Get().(*udpWriter)
}

// udpWriter is a worker's datagram socket. The scratch buffer is reused
// across writes; the worker's calls never overlap, so no locking is needed.
type udpWriter struct {
	conn    net.Conn
	scratch []byte
}

func newUDPWriter(address net.Addr, logger *zap.Logger) *udpWriter {
	conn, err := net.Dial(address.Network(), address.String())
	if err != nil {
		// Best effort: without a socket every write becomes a silent drop.
		logger.Error("statsd udp socket", zap.Error(err))
		return &udpWriter{}
	}

	return &udpWriter{
		conn:    conn,
		scratch: make([]byte, 0, 256),
	}
}

func (w *udpWriter) writeStat(prefix, name string, value uint64, unit []byte) {
	if w.conn == nil {
		return
	}

	w.scratch = appendStat(w.scratch[:0], prefix, name, value, unit)

	// Fire and forget: a full socket buffer or an unreachable collector just
	// loses the datagram.
	_, _ = w.conn.Write(w.scratch)
}

func (w *udpWriter) Close() error {
	if w.conn == nil {
		return nil
	}

	return w.conn.Close()
}
