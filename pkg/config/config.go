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

// Package config holds the external configuration surface of the ingestion
// pipeline (spec §6): the message type to transcode, the batch and window
// sizing knobs, and the destination to sink encoded windows to.
package config

import (
	"time"

	"github.com/apache/arrow/go/v12/arrow/memory"
)

// Config is the top-level configuration for a pipeline built by
// pkg/pipeline.Build.
type Config struct {
	// MessageName is the fully qualified protobuf message name the
	// descriptor pool resolves to plan a schema from.
	MessageName string

	// RecordsPerBatch is the target row count per flushed record batch.
	RecordsPerBatch int

	// BatchPeriod is the wall-clock duration per temporal window.
	BatchPeriod time.Duration

	// StorageURI is the scheme-qualified sink destination (file://…).
	StorageURI string

	// MaxRowsPerRowGroup bounds the encoder's row-group chunking.
	MaxRowsPerRowGroup int

	// QueueCapacity bounds each inter-stage queue. Zero falls back to
	// pkg/pipeline's default buffer size, the closest a Go channel gets to
	// the spec's notion of an unbounded queue.
	QueueCapacity int

	// RedactFields lists dotted field paths whose string values are passed
	// through a format-preserving cipher before being appended. Bytes
	// values are not redacted.
	RedactFields []string

	// RedactKey seeds the format-preserving cipher used for RedactFields.
	// Ignored when RedactFields is empty.
	RedactKey string

	// Pool is the Arrow memory allocator used by every column builder and
	// the encoder.
	Pool memory.Allocator

	// Zstd enables ZSTD compression of encoded IPC blobs.
	Zstd bool

	// Stats records that the caller wants runtime statistics (pkg/stats).
	// pipeline.New does not read it: a pipeline records per-stage latency
	// only once a stats.Collector is attached with Pipeline.WithStats, and
	// it records no dictionary cardinality.
	Stats bool
}

// Option mutates a Config at construction time.
type Option func(*Config)

// DefaultConfig returns a Config with the defaults named in spec §6:
// 1024 records per batch, a 60s window, a 10240-row row-group cap, the
// pipeline's default queue buffer, and ZSTD-compressed IPC output.
func DefaultConfig(messageName, storageURI string) *Config {
	return &Config{
		MessageName:        messageName,
		RecordsPerBatch:    1024,
		BatchPeriod:        60 * time.Second,
		StorageURI:         storageURI,
		MaxRowsPerRowGroup: 10240,
		QueueCapacity:      0,
		Pool:               memory.NewGoAllocator(),
		Zstd:               true,
		Stats:              false,
	}
}

// WithRecordsPerBatch overrides the target row count per flushed batch.
func WithRecordsPerBatch(n int) Option {
	return func(c *Config) { c.RecordsPerBatch = n }
}

// WithBatchPeriod overrides the rotator's window length.
func WithBatchPeriod(d time.Duration) Option {
	return func(c *Config) { c.BatchPeriod = d }
}

// WithMaxRowsPerRowGroup overrides the encoder's row-group cap.
func WithMaxRowsPerRowGroup(n int) Option {
	return func(c *Config) { c.MaxRowsPerRowGroup = n }
}

// WithQueueCapacity bounds the three pipeline queues. Zero selects
// pkg/pipeline's default buffer size.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithRedactFields marks dotted field paths for format-preserving
// encryption before transcoding.
func WithRedactFields(paths ...string) Option {
	return func(c *Config) { c.RedactFields = paths }
}

// WithRedactKey sets the format-preserving cipher seed used for
// RedactFields.
func WithRedactKey(key string) Option {
	return func(c *Config) { c.RedactKey = key }
}

// WithAllocator overrides the Arrow memory allocator.
func WithAllocator(pool memory.Allocator) Option {
	return func(c *Config) { c.Pool = pool }
}

// WithNoZstd disables IPC compression.
func WithNoZstd() Option {
	return func(c *Config) { c.Zstd = false }
}

// WithStats sets Stats. It does not attach a stats.Collector to a pipeline.
func WithStats() Option {
	return func(c *Config) { c.Stats = true }
}

// Apply constructs a Config by applying opts over DefaultConfig.
func Apply(messageName, storageURI string, opts ...Option) *Config {
	cfg := DefaultConfig(messageName, storageURI)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
