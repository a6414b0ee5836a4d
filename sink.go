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
)

// Sink receives metric observations and forwards them to an external
// collector. An external flush driver calls BeginFlush, then FlushCounter and
// FlushGauge once per metric, then EndFlush, once per flush interval.
// OnTimespanComplete and OnHistogramComplete are invoked independently as
// observations complete and may interleave with an open flush cycle.
//
// All methods are called from worker goroutines; each worker's calls never
// overlap with themselves, and sinks keep all mutable flush state per worker.
type Sink interface {
	BeginFlush()
	FlushCounter(name string, delta uint64)
	FlushGauge(name string, value uint64)
	EndFlush()
	OnTimespanComplete(name string, duration time.Duration)
	OnHistogramComplete(name string, value uint64)
}

// Connection is a pooled streaming connection towards an upstream cluster.
//
// Write queues bytes for asynchronous transmission and never blocks the
// caller; delivery is not acknowledged. Close tears the connection down
// immediately, discarding anything still queued. Callbacks registered with
// AddCloseCallback fire on both local and remote close, possibly from within
// Close itself, and the connection must not be used once they have run.
type Connection interface {
	Write(buffers net.Buffers)
	Close() error
	AddCloseCallback(fn func())
}

// ConnPool hands out connections for one upstream cluster and maintains a
// live count of bytes queued for transmission across all of the cluster's
// connections.
type ConnPool interface {
	// NewConnection returns a pooled connection, or nil when the pool cannot
	// supply one right now.
	NewConnection() Connection

	// TxBytesBuffered reports bytes currently queued for transmission. The
	// value is maintained by the pool and read opportunistically by sinks; it
	// is advisory, not transactional with any individual write.
	TxBytesBuffered() uint64
}

// ClusterManager resolves configured upstream clusters to their connection
// pools.
type ClusterManager interface {
	// ClusterConnPool returns the pool for a streaming-capable cluster. It
	// returns an error when no such cluster is configured; sink constructors
	// treat that as fatal.
	ClusterConnPool(name string) (ConnPool, error)
}

// Dispatcher is a worker's event loop handle.
type Dispatcher interface {
	// DeferredClose closes c after the currently dispatched callbacks have
	// completed, so an object is never torn down from inside its own event
	// handler.
	DeferredClose(c io.Closer)
}

// SlotAllocator stores lazily-built per-worker objects. Each sink allocates
// one slot; every worker gets its own instance, constructed on the worker's
// first access with that worker's Dispatcher. The allocator closes each built
// instance at worker teardown.
type SlotAllocator interface {
	AllocateSlot(build func(d Dispatcher) io.Closer) Slot
}

// Slot is one allocated per-worker slot.
type Slot interface {
	// Get returns the calling worker's instance, building it on first use.
	Get() io.Closer
}

// NullSink discards every observation. It stands in for a collector that is
// configured off.
var NullSink Sink = nullSink{}

type nullSink struct{}

func (nullSink) BeginFlush()                              {}
func (nullSink) FlushCounter(string, uint64)              {}
func (nullSink) FlushGauge(string, uint64)                {}
func (nullSink) EndFlush()                                {}
func (nullSink) OnTimespanComplete(string, time.Duration) {}
func (nullSink) OnHistogramComplete(string, uint64)       {}
