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

// Package pipeline wires the Schema Planner, Record Transcoder,
// Time-Windowed Rotator, Columnar Encoder and Object-Store Sink into one
// running component (spec §4.7). Its Start/Shutdown lifecycle and the
// drain-goroutines-on-shutdown shape are grounded on the teacher's own
// component, concurrentbatchprocessor.batchProcessor
// (collector/processor/concurrentbatchprocessor/batch_processor.go):
// Start launches per-stage goroutines tracked by a sync.WaitGroup,
// Shutdown closes an input channel and waits for them to drain before
// returning.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/collector/component"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/config"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/encode"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/rotate"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/sink"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/stats"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/telemetry"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/transcode"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// defaultQueueCapacity backs every inter-stage channel when
// config.Config.QueueCapacity is zero. Spec §6 calls zero "unbounded";
// Go channels have no such mode, so zero is treated as this large but
// finite buffer instead of an unbounded one.
const defaultQueueCapacity = 1024

// ErrClosed is returned by Ingest once Shutdown has been called.
var ErrClosed = errors.New("pipeline: ingest after shutdown")

// encodedWindow is one sealed window's encoded bytes, still carrying the
// window bounds the sink's manifest needs.
type encodedWindow struct {
	beginAt time.Time
	endAt   time.Time
	enc     *encode.Encoded
}

// Pipeline runs the rotate -> encode -> sink stages as three goroutines
// connected by buffered channels, fed by Ingest.
type Pipeline struct {
	rotator *rotate.Rotator
	encoder *encode.Encoder
	sink    sink.Sink

	msgCh    chan protoreflect.Message
	windowCh chan *rotate.SealedWindow
	blobCh   chan encodedWindow

	logger  *zap.Logger
	metrics *telemetry.Metrics
	stats   *stats.Collector

	wg     sync.WaitGroup
	mu     sync.Mutex
	errs   []error
	closed bool
}

// WithLogger attaches a logger used for per-stage error reporting.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithMetrics attaches a counter set the pipeline reports row, window and
// byte throughput against.
func (p *Pipeline) WithMetrics(m *telemetry.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// WithStats attaches a collector the pipeline reports per-stage latency
// against. Intended for use when cfg.Stats is true.
func (p *Pipeline) WithStats(s *stats.Collector) *Pipeline {
	p.stats = s
	return p
}

// New plans a schema for cfg.MessageName, builds a Transcoder, Rotator,
// Encoder and Sink from cfg, and returns a Pipeline ready for Start.
// files is the descriptor pool to resolve cfg.MessageName against;
// protoregistry.GlobalFiles works for any message type whose generated
// package has been imported.
func New(files *protoregistry.Files, cfg *config.Config, now time.Time) (*Pipeline, error) {
	s, registry, md, err := schema.Plan(files, cfg.MessageName, nil)
	if err != nil {
		return nil, err
	}

	tr, err := transcode.New(cfg.Pool, s, md, registry, cfg.RecordsPerBatch, cfg.RedactFields, cfg.RedactKey)
	if err != nil {
		return nil, err
	}

	rot := rotate.New(tr, cfg.BatchPeriod, cfg.RecordsPerBatch, now)

	arrowSchema, err := s.ArrowSchema()
	if err != nil {
		return nil, err
	}
	enc := encode.New(cfg.Pool, arrowSchema, cfg.Zstd, cfg.MaxRowsPerRowGroup)

	fs, err := sink.NewFileSink(cfg.StorageURI)
	if err != nil {
		return nil, err
	}

	queueCap := cfg.QueueCapacity
	if queueCap <= 0 {
		queueCap = defaultQueueCapacity
	}

	return &Pipeline{
		rotator:  rot,
		encoder:  enc,
		sink:     fs,
		msgCh:    make(chan protoreflect.Message, queueCap),
		windowCh: make(chan *rotate.SealedWindow, queueCap),
		blobCh:   make(chan encodedWindow, queueCap),
		logger:   zap.NewNop(),
	}, nil
}

// Start launches the rotation, encoding and sink goroutines. host is
// accepted to satisfy component.Component and is unused, matching the
// teacher's own processors.
func (p *Pipeline) Start(_ context.Context, _ component.Host) error {
	p.wg.Add(3)
	go p.runRotate()
	go p.runEncode()
	go p.runSink()
	return nil
}

// Shutdown closes the ingest channel, which lets the rotation stage drain
// whatever is already queued, seal the in-flight window through
// Rotator.Close, and hand it downstream before the encode and sink stages
// in turn see their own upstream close. It waits for all three stages to
// finish and returns every error any of them observed.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.msgCh)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		p.recordErr(ctx.Err())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return multierr.Combine(p.errs...)
}

// Ingest hands msg to the rotation stage. It returns a KindPipelineClosed
// error once Shutdown has been called. The closed check and the send share
// mu with Shutdown's close of msgCh so a send can never race a close.
func (p *Pipeline) Ingest(msg protoreflect.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return werror.WrapKind(werror.KindPipelineClosed, ErrClosed)
	}
	p.msgCh <- msg
	return nil
}

// runRotate owns the only reference to the Rotator. It is the sole writer
// of windowCh, so it is the one that closes it: once msgCh drains it seals
// whatever window is still open via Rotator.Close before returning, which
// is what lets Shutdown drain the in-flight window rather than discard it.
func (p *Pipeline) runRotate() {
	defer p.wg.Done()
	defer close(p.windowCh)

	for msg := range p.msgCh {
		start := time.Now()
		sealed, err := p.rotator.Ingest(msg, start)
		if p.stats != nil {
			p.stats.ObserveLatency("ingest", time.Since(start))
		}
		if err != nil {
			p.recordErr(err)
		} else if p.metrics != nil {
			p.metrics.RecordIngest(context.Background(), 1)
		}
		if sealed != nil {
			if p.metrics != nil {
				p.metrics.RecordWindowSealed(context.Background())
			}
			p.windowCh <- sealed
		}
	}

	sealed, err := p.rotator.Close()
	if err != nil {
		p.recordErr(err)
		return
	}
	if sealed != nil {
		if p.metrics != nil {
			p.metrics.RecordWindowSealed(context.Background())
		}
		p.windowCh <- sealed
	}
}

func (p *Pipeline) runEncode() {
	defer p.wg.Done()
	for sealed := range p.windowCh {
		start := time.Now()
		enc, err := p.encoder.Encode(sealed.Batches)
		if p.stats != nil {
			p.stats.ObserveLatency("encode", time.Since(start))
		}
		sealed.Release()
		if err != nil {
			p.recordErr(err)
			continue
		}
		p.blobCh <- encodedWindow{beginAt: sealed.BeginAt, endAt: sealed.EndAt, enc: enc}
	}
	close(p.blobCh)
}

func (p *Pipeline) runSink() {
	defer p.wg.Done()
	for blob := range p.blobCh {
		start := time.Now()
		_, err := p.sink.Write(context.Background(), blob.beginAt, blob.endAt, blob.enc)
		if p.stats != nil {
			p.stats.ObserveLatency("sink", time.Since(start))
		}
		if err != nil {
			p.recordErr(err)
			continue
		}
		if p.metrics != nil {
			p.metrics.RecordBytesWritten(context.Background(), int64(len(blob.enc.Bytes)))
		}
	}
}

func (p *Pipeline) recordErr(err error) {
	p.logger.Error("pipeline stage error", zap.Error(err), zap.String("kind", werror.KindOf(err).String()))
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

var _ component.Component = (*Pipeline)(nil)
