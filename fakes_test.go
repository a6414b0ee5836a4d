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
	"errors"
	"io"
	"net"
	"strings"

	"go.uber.org/atomic"
)

// fakeWorker implements SlotAllocator for a single worker, standing in for
// the process's worker-local storage layer.
type fakeWorker struct {
	dispatcher *fakeDispatcher
	slots      []*fakeSlot
}

func newFakeWorker() *fakeWorker {
	return &fakeWorker{dispatcher: &fakeDispatcher{}}
}

func (w *fakeWorker) AllocateSlot(build func(d Dispatcher) io.Closer) Slot {
	slot := &fakeSlot{build: build, dispatcher: w.dispatcher}
	w.slots = append(w.slots, slot)

	return slot
}

// shutdown tears the worker down, closing every built per-worker object and
// running anything still pending on the dispatcher.
func (w *fakeWorker) shutdown() {
	for _, slot := range w.slots {
		if slot.obj != nil {
			_ = slot.obj.Close()
			slot.obj = nil
		}
	}

	w.dispatcher.drain()
}

type fakeSlot struct {
	build      func(d Dispatcher) io.Closer
	dispatcher Dispatcher
	obj        io.Closer
}

func (s *fakeSlot) Get() io.Closer {
	if s.obj == nil {
		s.obj = s.build(s.dispatcher)
	}

	return s.obj
}

// fakeDispatcher records deferred closes; drain runs them, modeling the end
// of an event-loop dispatch.
type fakeDispatcher struct {
	deferred []io.Closer
}

func (d *fakeDispatcher) DeferredClose(c io.Closer) {
	d.deferred = append(d.deferred, c)
}

func (d *fakeDispatcher) drain() int {
	n := len(d.deferred)
	for _, c := range d.deferred {
		_ = c.Close()
	}
	d.deferred = nil

	return n
}

// fakeConn records writes as concatenated strings, one per Write call.
type fakeConn struct {
	writes  []string
	closed  bool
	onClose []func()
}

func (c *fakeConn) Write(buffers net.Buffers) {
	var all []byte
	for _, b := range buffers {
		all = append(all, b...)
	}

	c.writes = append(c.writes, string(all))
}

func (c *fakeConn) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true
	for _, fn := range c.onClose {
		fn()
	}

	return nil
}

func (c *fakeConn) AddCloseCallback(fn func()) {
	c.onClose = append(c.onClose, fn)
}

// raiseRemoteClose models the peer dropping the connection.
func (c *fakeConn) raiseRemoteClose() {
	c.closed = true
	for _, fn := range c.onClose {
		fn()
	}
}

func (c *fakeConn) sent() string {
	return strings.Join(c.writes, "")
}

// fakePool hands out fakeConns and exposes a settable outstanding-bytes
// signal.
type fakePool struct {
	txBuffered atomic.Uint64
	exhausted  bool
	conns      []*fakeConn
}

func (p *fakePool) NewConnection() Connection {
	if p.exhausted {
		return nil
	}

	conn := &fakeConn{}
	p.conns = append(p.conns, conn)

	return conn
}

func (p *fakePool) TxBytesBuffered() uint64 {
	return p.txBuffered.Load()
}

type fakeClusterManager struct {
	pools map[string]*fakePool
}

func (m *fakeClusterManager) ClusterConnPool(name string) (ConnPool, error) {
	pool, ok := m.pools[name]
	if !ok {
		return nil, errors.New("no such streaming cluster")
	}

	return pool, nil
}
