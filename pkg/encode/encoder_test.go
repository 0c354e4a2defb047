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

package encode_test

import (
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/column"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/encode"
)

func makeBatch(t *testing.T, mem memory.Allocator, n int) *column.RecordBatch {
	t.Helper()
	b := array.NewInt64Builder(mem)
	for i := 0; i < n; i++ {
		b.Append(int64(i))
	}
	arr := b.NewArray()
	sc := arrow.NewSchema([]arrow.Field{{Name: "v", Type: arrow.PrimitiveTypes.Int64}}, nil)
	rec := array.NewRecord(sc, []arrow.Array{arr}, int64(n))
	arr.Release()
	return &column.RecordBatch{Record: rec}
}

func TestEncodeProducesNonEmptyIPCStream(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := makeBatch(t, mem, 10)
	defer b.Release()

	enc := encode.New(mem, nil, true, 0)
	out, err := enc.Encode([]*column.RecordBatch{b})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Bytes)
	assert.EqualValues(t, 10, out.NumRows)
	assert.Equal(t, 1, out.NumChunks)
	assert.Equal(t, "arrow", out.FileExt)
}

func TestEncodeChunksByMaxRowsPerRowGroup(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := makeBatch(t, mem, 10)
	defer b.Release()

	enc := encode.New(mem, nil, false, 4)
	out, err := enc.Encode([]*column.RecordBatch{b})
	require.NoError(t, err)
	assert.EqualValues(t, 10, out.NumRows)
	assert.Equal(t, 3, out.NumChunks, "10 rows at 4-per-group must split into 3 chunks (4,4,2)")
}

func TestEncodeEmptyBatchesStillWritesSchemaOnlyStream(t *testing.T) {
	mem := memory.NewGoAllocator()
	sc := arrow.NewSchema([]arrow.Field{{Name: "v", Type: arrow.PrimitiveTypes.Int64}}, nil)

	enc := encode.New(mem, sc, true, 0)
	out, err := enc.Encode(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Bytes, "a sealed window with no batches at all still needs a schema header on disk")
	assert.EqualValues(t, 0, out.NumRows)
	assert.Equal(t, 0, out.NumChunks)
}

func TestEncodeEmptyBatchesWithNoSchemaFails(t *testing.T) {
	enc := encode.New(memory.NewGoAllocator(), nil, true, 0)
	_, err := enc.Encode(nil)
	assert.Error(t, err)
}
