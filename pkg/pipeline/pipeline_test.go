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

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/config"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/pipeline"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/telemetry"
)

func newTestPipeline(t *testing.T) (*pipeline.Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Apply(
		string((&logspb.LogRecord{}).ProtoReflect().Descriptor().FullName()),
		"file://"+dir,
		config.WithRecordsPerBatch(2),
		config.WithBatchPeriod(time.Minute),
		config.WithAllocator(memory.NewGoAllocator()),
		config.WithNoZstd(),
	)

	p, err := pipeline.New(protoregistry.GlobalFiles, cfg, time.Now())
	require.NoError(t, err)
	return p, dir
}

func TestPipelineIngestEncodesAndSinksOnShutdown(t *testing.T) {
	p, dir := newTestPipeline(t)
	m, err := telemetry.NewMetrics()
	require.NoError(t, err)
	p.WithMetrics(m)
	require.NoError(t, p.Start(context.Background(), nil))

	rec := &logspb.LogRecord{
		SeverityText: "INFO",
		Body:         &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: "hello"}},
	}
	require.NoError(t, p.Ingest(rec.ProtoReflect()))

	require.NoError(t, p.Shutdown(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var objects int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".arrow" {
			objects++
		}
	}
	assert.Equal(t, 1, objects, "shutdown must drain the in-flight window to one sunk object")
}

func TestPipelineShutdownWithNoMessagesStillSinksEmptyWindow(t *testing.T) {
	p, dir := newTestPipeline(t)
	require.NoError(t, p.Start(context.Background(), nil))
	require.NoError(t, p.Shutdown(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var objects int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".arrow" {
			objects++
		}
	}
	assert.Equal(t, 1, objects, "a window that never saw a message must still close and sink an empty object")
}

func TestPipelineIngestAfterShutdownFails(t *testing.T) {
	p, _ := newTestPipeline(t)
	require.NoError(t, p.Start(context.Background(), nil))
	require.NoError(t, p.Shutdown(context.Background()))

	rec := &logspb.LogRecord{SeverityText: "INFO"}
	err := p.Ingest(rec.ProtoReflect())
	assert.ErrorIs(t, err, pipeline.ErrClosed)
}

func TestPipelineShutdownIsIdempotent(t *testing.T) {
	p, _ := newTestPipeline(t)
	require.NoError(t, p.Start(context.Background(), nil))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}
