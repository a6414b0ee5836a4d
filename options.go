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

import "go.uber.org/zap"

const (
	// DefaultMetricPrefix is the prefix prepended to every metric name on the
	// wire.
	DefaultMetricPrefix = "envoy."

	// DefaultMaxBufferedStatsBytes is the ceiling on bytes queued for
	// transmission towards the collector before writes are dropped and the
	// connection is torn down.
	DefaultMaxBufferedStatsBytes = 16 * 1024 * 1024
)

// SinkOptions control statsd sink behavior.
type SinkOptions struct {
	// MetricPrefix is prepended to every metric name.
	MetricPrefix string

	// MaxBufferedStatsBytes is the outstanding-bytes ceiling for the TCP
	// sink's overflow guard.
	MaxBufferedStatsBytes uint64

	// Logger receives diagnostics about dropped writes and socket errors.
	// Drops stay silent on this path by contract, so the default logger is a
	// nop.
	Logger *zap.Logger
}

// Option modifies SinkOptions.
type Option func(*SinkOptions)

// MetricPrefix sets the prefix prepended to every metric name.
func MetricPrefix(prefix string) Option {
	return func(o *SinkOptions) {
		o.MetricPrefix = prefix
	}
}

// MaxBufferedStatsBytes sets the overflow guard ceiling for the TCP sink.
func MaxBufferedStatsBytes(limit uint64) Option {
	return func(o *SinkOptions) {
		o.MaxBufferedStatsBytes = limit
	}
}

// Logger sets the logger used for drop and socket diagnostics.
func Logger(logger *zap.Logger) Option {
	return func(o *SinkOptions) {
		o.Logger = logger
	}
}

func defaultOptions() SinkOptions {
	return SinkOptions{
		MetricPrefix:          DefaultMetricPrefix,
		MaxBufferedStatsBytes: DefaultMaxBufferedStatsBytes,
		Logger:                zap.NewNop(),
	}
}
