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

package datagen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/datagen"
)

func TestLogGeneratorAdvancesTimeAndFillsBody(t *testing.T) {
	g := datagen.NewLogGenerator(1_700_000_000_000_000_000, 42)

	first := g.Next(1_000_000_000)
	second := g.Next(1_000_000_000)

	assert.Greater(t, second.TimeUnixNano, first.TimeUnixNano)
	assert.NotEmpty(t, first.SeverityText)
	assert.NotEmpty(t, first.Body.GetStringValue())
	assert.Len(t, first.Attributes, 3)
}

func TestGenerateBatchReturnsRequestedCount(t *testing.T) {
	g := datagen.NewLogGenerator(0, 1)
	batch := g.GenerateBatch(10, 500_000_000)
	assert.Len(t, batch, 10)
}
