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

package sink_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/encode"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/sink"
)

func TestFileSinkWritesObjectAndManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := sink.NewFileSink("file://" + dir)
	require.NoError(t, err)

	begin := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	end := begin.Add(time.Minute)
	enc := &encode.Encoded{Bytes: []byte{1, 2, 3}, NumRows: 3, NumChunks: 1, FileExt: "arrow"}

	path, err := s.Write(context.Background(), begin, end, enc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-03-04-050607_utc.arrow"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, enc.Bytes, data)

	manifestBytes, err := os.ReadFile(path + ".manifest.cbor")
	require.NoError(t, err)
	var m sink.Manifest
	require.NoError(t, cbor.Unmarshal(manifestBytes, &m))
	assert.EqualValues(t, 3, m.NumRows)
	assert.Equal(t, "2026-03-04-050607_utc.arrow", m.Object)
}

func TestFileSinkRejectsClosedContext(t *testing.T) {
	dir := t.TempDir()
	s, err := sink.NewFileSink("file://" + dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Write(ctx, time.Now(), time.Now(), &encode.Encoded{FileExt: "arrow"})
	assert.Error(t, err)
}
