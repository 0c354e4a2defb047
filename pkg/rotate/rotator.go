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

// Package rotate implements the time-windowed rotation state machine
// (spec §4.4), grounded on the original implementation's own rotator,
// original_source/katniss-ingestor/src/pipeline/temporal_rotator.rs: a
// window boundary check on every ingest (strict now > end_at, never
// idle-triggered), a row-count sub-batch flush inside the window, and one
// sealed window handed off per rotation.
package rotate

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/column"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/transcode"
)

// SealedWindow is one rotator window's worth of completed record batches,
// handed to the Columnar Encoder once the window closes.
type SealedWindow struct {
	BeginAt time.Time
	EndAt   time.Time
	Batches []*column.RecordBatch
}

// Release drops every batch this window holds.
func (w *SealedWindow) Release() {
	for _, b := range w.Batches {
		b.Release()
	}
}

type window struct {
	beginAt time.Time
	endAt   time.Time
	batches []*column.RecordBatch
}

func newWindow(now time.Time, period time.Duration) *window {
	return &window{beginAt: now, endAt: now.Add(period)}
}

// Rotator drives one Transcoder through a sequence of fixed-length time
// windows. It owns the only reference to the Transcoder's row state;
// callers interact with ingestion exclusively through Ingest.
type Rotator struct {
	tr              *transcode.Transcoder
	period          time.Duration
	recordsPerBatch int
	current         *window
}

// New starts a Rotator with its first window beginning at now.
func New(tr *transcode.Transcoder, period time.Duration, recordsPerBatch int, now time.Time) *Rotator {
	return &Rotator{tr: tr, period: period, recordsPerBatch: recordsPerBatch, current: newWindow(now, period)}
}

// Ingest appends msg, observed at time now, rotating the current window
// first if now has strictly passed its end boundary (now == end_at does
// not rotate, matching the original's `now > self.current.end_at`).
// Idle time alone — no message ever arriving past the boundary — never
// triggers a rotation; ingest is the only thing that checks the clock.
//
// A rotation always flushes whatever rows the transcoder is holding into
// the closing window before it is hashed off, so a sealed window never
// silently drops an in-flight partial batch. If Append itself fails, the
// returned window (if any) is still valid and must still be delivered —
// rotation and per-row append are independent failures — but the
// transcoder's row count is left exactly as it was, per its own atomicity
// guarantee.
func (r *Rotator) Ingest(msg protoreflect.Message, now time.Time) (*SealedWindow, error) {
	var sealed *SealedWindow
	if now.After(r.current.endAt) {
		if err := r.flushPending(); err != nil {
			return nil, err
		}
		old := r.current
		r.current = newWindow(now, r.period)
		sealed = &SealedWindow{BeginAt: old.beginAt, EndAt: old.endAt, Batches: old.batches}
	}

	if err := r.tr.Append(msg); err != nil {
		return sealed, err
	}

	if r.recordsPerBatch > 0 && r.tr.Len() >= r.recordsPerBatch {
		if err := r.flushPending(); err != nil {
			return sealed, err
		}
	}

	return sealed, nil
}

// Close flushes any pending rows and seals the current window regardless
// of its age, for use at orderly pipeline shutdown — draining the
// in-flight window rather than discarding it.
func (r *Rotator) Close() (*SealedWindow, error) {
	if err := r.flushPending(); err != nil {
		return nil, err
	}
	old := r.current
	return &SealedWindow{BeginAt: old.beginAt, EndAt: old.endAt, Batches: old.batches}, nil
}

// flushPending always drains the transcoder, even when it holds zero
// rows: a window that closes without ever seeing a message still needs a
// batch (schema, zero rows) so the sealed window it produces is never
// empty of batches entirely, per spec.md's "a flush with zero rows
// produces an empty batch, not a failure".
func (r *Rotator) flushPending() error {
	batch, err := r.tr.Flush()
	if err != nil {
		return err
	}
	r.current.batches = append(r.current.batches, batch)
	return nil
}
