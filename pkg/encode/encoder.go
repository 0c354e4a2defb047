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

// Package encode turns a sealed window's record batches into the
// stream-format bytes the Object-Store Sink writes out, grounded on the
// teacher's own arrow_record.Producer (pkg/otel/arrow_record/producer.go),
// which wraps arrow/ipc.Writer with WithSchema/WithZstd/WithDictionaryDeltas
// exactly as this encoder does, and pkg/otel_test/writer_test.go's more
// minimal Writer-over-bytes.Buffer round trip.
//
// There is no parquet writer anywhere in the retrieved corpus — the
// teacher and the rest of the pack both stop at Arrow IPC — so unlike the
// original (a parquet-from-protobuf pipeline), the encoded artifact here
// is an Arrow IPC stream (one schema message followed by one record batch
// message per chunk), not a parquet file. Row-group chunking (spec
// §4.5/§9 Open Question 3) is therefore expressed as one IPC record batch
// message per chunk within a single stream file, keeping a single schema
// header for the whole window's output.
package encode

import (
	"bytes"
	"errors"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/column"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// errNoSchema is returned when Encode is given no batches and no fallback
// schema was supplied to New — there is nothing to write a stream header
// from.
var errNoSchema = errors.New("encode: no batches and no schema to encode")

// Encoded holds one window's encoded bytes plus the row/chunk counts the
// sink's manifest sidecar records alongside them.
type Encoded struct {
	Bytes     []byte
	NumRows   int64
	NumChunks int
	FileExt   string
}

// Encoder writes a sequence of arrow.Record chunks belonging to one window
// into a single Arrow IPC stream, optionally Zstd-compressed.
type Encoder struct {
	pool               memory.Allocator
	schema             *arrow.Schema
	zstd               bool
	maxRowsPerRowGroup int
}

// New builds an Encoder. schema is the pipeline's planned ColumnarSchema
// rendered as an arrow.Schema; it is used to write a schema-only IPC
// stream on the rare path where a sealed window carries no batches at
// all. maxRowsPerRowGroup bounds how many rows a single IPC record batch
// message may carry; a RecordBatch larger than that is sliced into
// several messages sharing the same stream (spec §4.5).
func New(pool memory.Allocator, schema *arrow.Schema, zstd bool, maxRowsPerRowGroup int) *Encoder {
	return &Encoder{pool: pool, schema: schema, zstd: zstd, maxRowsPerRowGroup: maxRowsPerRowGroup}
}

// FileExt returns the extension encoded windows are written under.
func (e *Encoder) FileExt() string { return "arrow" }

// Encode concatenates batches (already in window order) into a single IPC
// stream. All batches must share the same schema — the Record Transcoder
// only ever produces batches from one ColumnarSchema, so this holds by
// construction for anything the rest of the pipeline hands the encoder.
// A sealed window with no batches at all (Rotator.flushPending normally
// guarantees at least one, possibly zero-row, batch per window, but
// Encode does not depend on that) still produces a schema-only IPC
// stream rather than an empty byte slice — spec.md's "windows with no
// messages still close and are emitted" holds even in that degenerate
// case.
func (e *Encoder) Encode(batches []*column.RecordBatch) (*Encoded, error) {
	sc := e.schema
	if len(batches) > 0 {
		sc = batches[0].Record.Schema()
	}
	if sc == nil {
		return nil, werror.WrapKind(werror.KindEncode, errNoSchema)
	}

	var buf bytes.Buffer
	opts := []ipc.Option{
		ipc.WithAllocator(e.pool),
		ipc.WithSchema(sc),
		ipc.WithDictionaryDeltas(true),
	}
	if e.zstd {
		opts = append(opts, ipc.WithZstd())
	}
	w := ipc.NewWriter(&buf, opts...)

	var totalRows int64
	chunks := 0
	for _, b := range batches {
		for _, chunk := range splitRows(b.Record, e.maxRowsPerRowGroup) {
			if err := w.Write(chunk); err != nil {
				chunk.Release()
				return nil, werror.WrapKind(werror.KindEncode, err)
			}
			totalRows += chunk.NumRows()
			chunks++
			chunk.Release()
		}
	}
	if err := w.Close(); err != nil {
		return nil, werror.WrapKind(werror.KindEncode, err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return &Encoded{Bytes: out, NumRows: totalRows, NumChunks: chunks, FileExt: e.FileExt()}, nil
}

// splitRows slices rec into row groups of at most maxRows each. maxRows<=0
// means "one row group for the whole record" (Open Question 3's default).
func splitRows(rec arrow.Record, maxRows int) []arrow.Record {
	if maxRows <= 0 || rec.NumRows() <= int64(maxRows) {
		rec.Retain()
		return []arrow.Record{rec}
	}

	var out []arrow.Record
	var offset int64
	for offset < rec.NumRows() {
		n := int64(maxRows)
		if remaining := rec.NumRows() - offset; remaining < n {
			n = remaining
		}
		out = append(out, rec.NewSlice(offset, offset+n))
		offset += n
	}
	return out
}
