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

package transcode_test

import (
	"testing"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/transcode"
)

func planLogRecord(t *testing.T) (*schema.ColumnarSchema, *schema.DictionaryRegistry) {
	t.Helper()
	md := (&logspb.LogRecord{}).ProtoReflect().Descriptor()
	f, err := protoregistry.GlobalFiles.FindFileByPath(md.ParentFile().Path())
	require.NoError(t, err)
	files := new(protoregistry.Files)
	require.NoError(t, files.RegisterFile(f))
	s, reg, _, err := schema.Plan(files, string(md.FullName()), nil)
	require.NoError(t, err)
	return s, reg
}

func TestAppendFlushRoundTrip(t *testing.T) {
	s, reg := planLogRecord(t)
	md := (&logspb.LogRecord{}).ProtoReflect().Descriptor()

	mem := memory.NewGoAllocator()
	tr, err := transcode.New(mem, s, md, reg, 4, nil, "")
	require.NoError(t, err)

	rec := &logspb.LogRecord{
		SeverityText: "INFO",
		Body:         &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "hello"}},
	}
	require.NoError(t, tr.Append(rec.ProtoReflect()))
	assert.Equal(t, 1, tr.Len())

	batch, err := tr.Flush()
	require.NoError(t, err)
	defer batch.Release()
	assert.EqualValues(t, 1, batch.NumRows())
	assert.Equal(t, 0, tr.Len())
}

func TestAppendRejectsUnknownEnumWithoutDesyncingColumns(t *testing.T) {
	s, reg := planLogRecord(t)
	md := (&logspb.LogRecord{}).ProtoReflect().Descriptor()

	mem := memory.NewGoAllocator()
	tr, err := transcode.New(mem, s, md, reg, 4, nil, "")
	require.NoError(t, err)

	rec := &logspb.LogRecord{SeverityText: "INFO"}
	require.NoError(t, tr.Append(rec.ProtoReflect()))

	rec2 := &logspb.LogRecord{SeverityNumber: logspb.SeverityNumber(9999)}
	err = tr.Append(rec2.ProtoReflect())
	assert.Error(t, err)
	assert.Equal(t, 1, tr.Len(), "a rejected row must not partially advance any column")
}
