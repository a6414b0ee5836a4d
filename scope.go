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
	"sync"

	"go.uber.org/atomic"
)

// Counter is a persistent stat shared by all workers of a sink. It only ever
// increases.
type Counter interface {
	Inc()
	Value() uint64
}

// Scope is the registry backing persistent counters. The same name always
// yields the same counter.
type Scope interface {
	Counter(name string) Counter
}

// NewScope returns an in-process Scope backed by atomic counters. It needs no
// teardown.
func NewScope() Scope {
	return &scope{counters: map[string]*counter{}}
}

type scope struct {
	mu       sync.Mutex
	counters map[string]*counter
}

func (s *scope) Counter(name string) Counter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counters[name]
	if c == nil {
		c = &counter{}
		s.counters[name] = c
	}

	return c
}

type counter struct {
	value atomic.Uint64
}

func (c *counter) Inc() {
	c.value.Inc()
}

func (c *counter) Value() uint64 {
	return c.value.Load()
}
