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

package rotate_test

import (
	"testing"
	"time"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/rotate"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/transcode"
)

func newTestTranscoder(t *testing.T, capacity int) *transcode.Transcoder {
	t.Helper()
	md := (&logspb.LogRecord{}).ProtoReflect().Descriptor()
	f, err := protoregistry.GlobalFiles.FindFileByPath(md.ParentFile().Path())
	require.NoError(t, err)
	files := new(protoregistry.Files)
	require.NoError(t, files.RegisterFile(f))

	s, reg, resolved, err := schema.Plan(files, string(md.FullName()), nil)
	require.NoError(t, err)

	tr, err := transcode.New(memory.NewGoAllocator(), s, resolved, reg, capacity, nil, "")
	require.NoError(t, err)
	return tr
}

func TestRotatorBoundaryIsStrictlyAfterEnd(t *testing.T) {
	tr := newTestTranscoder(t, 8)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rotate.New(tr, 60*time.Second, 2, start)

	msg := (&logspb.LogRecord{SeverityText: "INFO"}).ProtoReflect()

	sealed, err := r.Ingest(msg, start.Add(1*time.Second))
	require.NoError(t, err)
	assert.Nil(t, sealed)

	// exactly at the boundary: must not rotate
	sealed, err = r.Ingest(msg, start.Add(60*time.Second))
	require.NoError(t, err)
	assert.Nil(t, sealed)

	// past the boundary: must rotate
	sealed, err = r.Ingest(msg, start.Add(61*time.Second))
	require.NoError(t, err)
	require.NotNil(t, sealed)
	defer sealed.Release()
	assert.Equal(t, start, sealed.BeginAt)
}

func TestRotatorFlushesSubBatchesOnRecordCount(t *testing.T) {
	tr := newTestTranscoder(t, 8)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rotate.New(tr, 60*time.Second, 2, start)

	msg := (&logspb.LogRecord{SeverityText: "INFO"}).ProtoReflect()
	for i := 0; i < 5; i++ {
		_, err := r.Ingest(msg, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	sealed, err := r.Close()
	require.NoError(t, err)
	defer sealed.Release()

	rows := 0
	for _, b := range sealed.Batches {
		rows += int(b.NumRows())
	}
	assert.Equal(t, 5, rows)
	assert.GreaterOrEqual(t, len(sealed.Batches), 2, "5 rows at 2-per-batch must have split into multiple record batches")
}

func TestRotatorIdleTimeAloneNeverFlushes(t *testing.T) {
	tr := newTestTranscoder(t, 8)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rotate.New(tr, 60*time.Second, 2, start)

	msg := (&logspb.LogRecord{SeverityText: "INFO"}).ProtoReflect()
	_, err := r.Ingest(msg, start.Add(1*time.Second))
	require.NoError(t, err)

	// No further Ingest call occurs; nothing should rotate on its own
	// since only Ingest ever checks the clock.
	assert.Equal(t, 1, tr.Len())
}
