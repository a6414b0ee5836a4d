/*
Package statsd implements best-effort statsd sinks for flushing metrics to an
external collector over UDP or a pooled TCP connection.

The sinks are the emission end of a metrics pipeline: an external flush driver
calls BeginFlush, a series of FlushCounter/FlushGauge, then EndFlush once per
flush interval, while completed timers and histograms arrive independently at
any time. Delivery is fire-and-forget; there are no retries and no queues of
failed writes.

Architecture of the TCP sink:

  - every worker owns its own flush buffer and connection, built lazily on the
    worker's first metric and torn down with the worker
  - encoded lines accumulate into fixed-capacity 16KiB slices; a slice that
    cannot hold the next line is sealed and a fresh one is opened, so one flush
    cycle is transmitted as a single ordered write regardless of rotation
  - every write consults the cluster's outstanding-bytes signal first; above
    the 16MiB ceiling the payload is dropped, the connection is closed and a
    shared overflow counter is incremented
  - connections come from a pooled connection manager keyed by upstream
    cluster; a closed connection is released after its close notification
    completes and the next write reconnects lazily
  - timers and histograms bypass the flush buffer and travel as self-contained
    payloads through the same connect/overflow logic

The UDP sink is the simple variant: one connected datagram socket per worker,
one datagram per observation, no batching.
*/
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
