/*
 * Copyright The OpenTelemetry Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package stats tracks optional runtime statistics (the pipeline records
// into a Collector only when one is attached with Pipeline.WithStats;
// config.Config.Stats does not attach one): per-dictionary-column
// cardinality, via
// an HLL sketch instead of an exact set (a dictionary column's value
// vector is already bounded by its enum descriptor, but how much of
// that vocabulary a given stream actually exercises is not, and an exact
// set would cost as much memory as just keeping the set itself), and
// per-stage latency distributions, via HdrHistogram-go the way
// HdrHistogram-go's own README demonstrates: one fixed-range histogram
// per recorded stage, queried by quantile rather than by raw samples.
package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/axiomhq/hyperloglog"
)

// maxLatencyMicros bounds the histograms at one second; ingest and
// encode calls that take longer than that are clamped into the top
// bucket rather than rejected.
const maxLatencyMicros = 1_000_000

// Collector accumulates dictionary-column cardinality sketches and
// per-stage latency histograms for one running pipeline.
type Collector struct {
	mu         sync.Mutex
	sketches   map[string]*hyperloglog.Sketch
	histograms map[string]*hdrhistogram.Histogram
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{
		sketches:   make(map[string]*hyperloglog.Sketch),
		histograms: make(map[string]*hdrhistogram.Histogram),
	}
}

// ObserveDictValue records one occurrence of value in the named
// dictionary column's cardinality sketch.
func (c *Collector) ObserveDictValue(column, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sk, ok := c.sketches[column]
	if !ok {
		sk = hyperloglog.New()
		c.sketches[column] = sk
	}
	sk.Insert([]byte(value))
}

// ObserveLatency records one duration against the named stage's
// histogram (e.g. "ingest", "encode", "sink").
func (c *Collector) ObserveLatency(stage string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.histograms[stage]
	if !ok {
		h = hdrhistogram.New(1, maxLatencyMicros, 3)
		c.histograms[stage] = h
	}
	micros := d.Microseconds()
	if micros > maxLatencyMicros {
		micros = maxLatencyMicros
	}
	if micros < 1 {
		micros = 1
	}
	_ = h.RecordValue(micros)
}

// Snapshot is a point-in-time read of every tracked column's estimated
// cardinality and every tracked stage's latency distribution.
type Snapshot struct {
	DictCardinality  map[string]uint64
	LatencyP50Micros map[string]int64
	LatencyP99Micros map[string]int64
}

// Snapshot copies out the current estimates without resetting them.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Snapshot{
		DictCardinality:  make(map[string]uint64, len(c.sketches)),
		LatencyP50Micros: make(map[string]int64, len(c.histograms)),
		LatencyP99Micros: make(map[string]int64, len(c.histograms)),
	}
	for col, sk := range c.sketches {
		out.DictCardinality[col] = sk.Estimate()
	}
	for stage, h := range c.histograms {
		out.LatencyP50Micros[stage] = h.ValueAtQuantile(50)
		out.LatencyP99Micros[stage] = h.ValueAtQuantile(99)
	}
	return out
}
