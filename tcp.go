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
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// TCPSink batches counters and gauges per flush cycle and transmits them over
// a pooled TCP connection to an upstream cluster. Timers and histograms skip
// the batch and travel as self-contained payloads through the same connection
// and overflow logic.
//
// Every worker owns an independent flush buffer and connection; the only
// cross-worker state is the cluster's outstanding-bytes signal and the shared
// statsd.cx_overflow counter, both maintained atomically.
type TCPSink struct {
	options SinkOptions

	cluster    string
	pool       ConnPool
	workers    Slot
	cxOverflow Counter
}

// NewTCPSink creates a sink flushing to the named upstream cluster. It fails
// when the cluster is not configured as a streaming-capable cluster; a sink
// is never usable after a construction error.
func NewTCPSink(cluster string, manager ClusterManager, workers SlotAllocator, scope Scope, opt ...Option) (*TCPSink, error) {
	pool, err := manager.ClusterConnPool(cluster)
	if err != nil {
		return nil, fmt.Errorf("tcp statsd cluster %q: %w", cluster, err)
	}

	s := &TCPSink{
		options:    defaultOptions(),
		cluster:    cluster,
		pool:       pool,
		cxOverflow: scope.Counter("statsd.cx_overflow"),
	}

	for _, option := range opt {
		option(&s.options)
	}

	s.workers = workers.AllocateSlot(func(d Dispatcher) io.Closer {
		return &tcpWorkerSink{parent: s, dispatcher: d}
	})

	return s, nil
}

// BeginFlush opens the calling worker's flush cycle. The previous cycle must
// have been fully transmitted or dropped.
func (s *TCPSink) BeginFlush() {
	s.worker().beginFlush(true)
}

// FlushCounter adds one counter delta to the open flush cycle.
func (s *TCPSink) FlushCounter(name string, delta uint64) {
	s.worker().flushCounter(name, delta)
}

// FlushGauge adds one gauge value to the open flush cycle.
func (s *TCPSink) FlushGauge(name string, value uint64) {
	s.worker().flushGauge(name, value)
}

// EndFlush closes the cycle and hands everything committed since BeginFlush
// to the transport as a single write.
func (s *TCPSink) EndFlush() {
	s.worker().endFlush(true)
}

// OnTimespanComplete transmits one timer observation immediately, outside of
// any flush cycle. The wire value is whole milliseconds.
func (s *TCPSink) OnTimespanComplete(name string, duration time.Duration) {
	s.worker().onTimespanComplete(name, duration)
}

// OnHistogramComplete transmits one histogram observation immediately. For
// statsd histograms are just timers.
func (s *TCPSink) OnHistogramComplete(name string, value uint64) {
	s.OnTimespanComplete(name, time.Duration(value)*time.Millisecond)
}

func (s *TCPSink) worker() *tcpWorkerSink {
	return s.workers.Get().(*tcpWorkerSink)
}

// tcpWorkerSink is the per-worker half of TCPSink: the flush buffer, the
// write cursor and the worker's connection. It is built lazily on the
// worker's first metric and never shared between workers.
type tcpWorkerSink struct {
	parent     *TCPSink
	dispatcher Dispatcher
	conn       Connection
	buf        flushBuffer
}

func (w *tcpWorkerSink) beginFlush(expectEmpty bool) {
	w.buf.begin(expectEmpty)
}

func (w *tcpWorkerSink) flushCounter(name string, delta uint64) {
	w.buf.writeStat(w.parent.options.MetricPrefix, name, delta, unitCounter)
}

func (w *tcpWorkerSink) flushGauge(name string, value uint64) {
	w.buf.writeStat(w.parent.options.MetricPrefix, name, value, unitGauge)
}

func (w *tcpWorkerSink) endFlush(transmit bool) {
	w.buf.seal()

	if transmit {
		w.write(w.buf.detach())
	}
}

// onTimespanComplete encodes the timer into its own payload so it cannot
// corrupt a flush cycle open on the same worker.
func (w *tcpWorkerSink) onTimespanComplete(name string, duration time.Duration) {
	line := appendStat(nil, w.parent.options.MetricPrefix, name,
		uint64(duration/time.Millisecond), unitTimer)
	w.write(net.Buffers{line})
}

// write pushes buffers towards the collector, connecting lazily. The payload
// is dropped when the cluster's transmit queue is over the overflow ceiling
// or when the pool cannot supply a connection; neither case surfaces an
// error, and the next write retries implicitly.
func (w *tcpWorkerSink) write(buffers net.Buffers) {
	parent := w.parent

	// The outstanding-bytes signal is shared across workers and read
	// opportunistically, so it can be slightly stale against the write below.
	// Staying over the ceiling eventually trips every worker.
	if buffered := parent.pool.TxBytesBuffered(); buffered > parent.options.MaxBufferedStatsBytes {
		if conn := w.conn; conn != nil {
			w.conn = nil
			_ = conn.Close()
		}
		parent.cxOverflow.Inc()
		parent.options.Logger.Warn("statsd connection overflow, dropping stats",
			zap.String("cluster", parent.cluster),
			zap.Uint64("tx_bytes_buffered", buffered))
		return
	}

	if w.conn == nil {
		conn := parent.pool.NewConnection()
		if conn == nil {
			parent.options.Logger.Debug("statsd connection pool exhausted, dropping stats",
				zap.String("cluster", parent.cluster))
			return
		}

		w.conn = conn
		conn.AddCloseCallback(w.onConnectionClosed)
	}

	w.conn.Write(buffers)
}

// onConnectionClosed handles local and remote close. The handle is released
// after the current dispatch completes so the connection is never torn down
// inside its own close notification; the next write reconnects.
func (w *tcpWorkerSink) onConnectionClosed() {
	conn := w.conn
	if conn == nil {
		return
	}

	w.conn = nil
	w.dispatcher.DeferredClose(conn)
}

// Close runs at worker teardown and discards the worker's connection without
// flushing pending bytes.
func (w *tcpWorkerSink) Close() error {
	if conn := w.conn; conn != nil {
		w.conn = nil
		_ = conn.Close()
	}

	return nil
}
