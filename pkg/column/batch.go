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

package column

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
)

type columnArray struct {
	name string
	arr  arrow.Array
}

// RecordBatch wraps one drained arrow.Record: the columnar artifact that
// flows from the Record Transcoder through the Time-Windowed Rotator to
// the Columnar Encoder (spec §3). Release must be called exactly once the
// record is no longer needed.
type RecordBatch struct {
	Record arrow.Record
}

func newRecordBatch(mem memory.Allocator, cols []columnArray, rows int) (*RecordBatch, error) {
	fields := make([]arrow.Field, len(cols))
	arrays := make([]arrow.Array, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.name, Type: c.arr.DataType(), Nullable: true}
		arrays[i] = c.arr
	}
	sc := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(sc, arrays, int64(rows))
	for _, a := range arrays {
		a.Release()
	}
	return &RecordBatch{Record: rec}, nil
}

// NumRows returns the record's row count.
func (b *RecordBatch) NumRows() int64 { return b.Record.NumRows() }

// Release drops this batch's reference to the underlying Arrow buffers.
func (b *RecordBatch) Release() {
	if b.Record != nil {
		b.Record.Release()
	}
}
