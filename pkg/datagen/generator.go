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

// Package datagen generates synthetic OTLP log records for tests and local
// demos, the same generate-fake-telemetry idiom as the teacher's own
// pkg/datagen (a severity drawn at random from Debug/Info/Warn/Error, a
// lorem-ipsum body, a fixed set of standard attributes with randomly
// chosen values), driven by gofakeit exactly as
// the teacher drives it. It targets this ingestor's architecture directly:
// the teacher's generator builds pdata (plog.Logs) trees for the
// collector's internal pipeline representation, but the Record Transcoder
// here walks real go.opentelemetry.io/proto/otlp messages through
// protoreflect, so this generator builds those messages directly instead
// of going through pdata and back.
package datagen

import (
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
)

var severities = []struct {
	num logspb.SeverityNumber
	txt string
}{
	{logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG, "DEBUG"},
	{logspb.SeverityNumber_SEVERITY_NUMBER_INFO, "INFO"},
	{logspb.SeverityNumber_SEVERITY_NUMBER_WARN, "WARN"},
	{logspb.SeverityNumber_SEVERITY_NUMBER_ERROR, "ERROR"},
}

var hostnames = []string{"host1.mydomain.com", "host2.org", "host3.thedomain.edu"}
var versions = []string{"1.0.0", "1.0.2", "2.0"}

// LogGenerator produces a deterministic-length stream of synthetic
// LogRecord messages with a monotonically advancing timestamp.
type LogGenerator struct {
	currentUnixNano uint64
	rng             *rand.Rand
}

// NewLogGenerator seeds a LogGenerator at startUnixNano.
func NewLogGenerator(startUnixNano uint64, seed int64) *LogGenerator {
	return &LogGenerator{currentUnixNano: startUnixNano, rng: rand.New(rand.NewSource(seed))}
}

// Next returns one synthetic LogRecord and advances the generator's clock
// by collectIntervalNanos.
func (g *LogGenerator) Next(collectIntervalNanos uint64) *logspb.LogRecord {
	g.currentUnixNano += collectIntervalNanos
	sev := severities[g.rng.Intn(len(severities))]

	return &logspb.LogRecord{
		TimeUnixNano:         g.currentUnixNano,
		ObservedTimeUnixNano: g.currentUnixNano,
		SeverityNumber:       sev.num,
		SeverityText:         sev.txt,
		Body: &commonpb.AnyValue{
			Value: &commonpb.AnyValue_StringValue{StringValue: gofakeit.LoremIpsumSentence(10)},
		},
		Attributes: g.standardAttributes(),
	}
}

// GenerateBatch returns n synthetic LogRecords, collectIntervalNanos apart.
func (g *LogGenerator) GenerateBatch(n int, collectIntervalNanos uint64) []*logspb.LogRecord {
	out := make([]*logspb.LogRecord, n)
	for i := range out {
		out[i] = g.Next(collectIntervalNanos)
	}
	return out
}

func (g *LogGenerator) standardAttributes() []*commonpb.KeyValue {
	return []*commonpb.KeyValue{
		{Key: "hostname", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{
			StringValue: hostnames[g.rng.Intn(len(hostnames))],
		}}},
		{Key: "version", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{
			StringValue: versions[g.rng.Intn(len(versions))],
		}}},
		{Key: "up", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{
			BoolValue: g.rng.Intn(2) == 0,
		}}},
	}
}
