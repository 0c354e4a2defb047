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

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/telemetry"
)

func TestMetricsRecordersDoNotError(t *testing.T) {
	m, err := telemetry.NewMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordIngest(ctx, 3)
	m.RecordWindowSealed(ctx)
	m.RecordBytesWritten(ctx, 128)

	assert.NoError(t, m.Shutdown(ctx))
}
