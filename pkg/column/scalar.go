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

	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// ScalarBuilder backs every leaf logical type except List, Struct and Dict.
// It wraps one of the official array.Builder implementations directly,
// replacing the teacher's hand-rolled per-type value slices
// (pkg/air/column/{int,uint,float,string,binary,bool}.go) with the
// allocator-aware builder the arrow/v12 package already provides.
type ScalarBuilder struct {
	kind schema.Kind
	b    array.Builder
}

// newScalarBuilder allocates the concrete array.Builder for k, reserving
// capacity rows up front the way the teacher's column constructors size
// their backing slices.
func newScalarBuilder(mem memory.Allocator, k schema.Kind, capacity int) (*ScalarBuilder, error) {
	dt, err := (&schema.Column{Kind: k}).ArrowType()
	if err != nil {
		return nil, werror.WrapKindWithContext(werror.KindSchema, schema.ErrUnsupportedType, map[string]interface{}{"kind": k.String(), "cause": err.Error()})
	}
	b := array.NewBuilder(mem, dt)
	b.Reserve(capacity)
	return &ScalarBuilder{kind: k, b: b}, nil
}

func (s *ScalarBuilder) AppendNull() { s.b.AppendNull() }
func (s *ScalarBuilder) Len() int    { return s.b.Len() }

// Finish drains the builder into an immutable arrow.Array. The caller owns
// the returned array's reference.
func (s *ScalarBuilder) Finish() (arrow.Array, error) {
	return s.b.NewArray(), nil
}

func (s *ScalarBuilder) AppendBool(v bool)     { s.b.(*array.BooleanBuilder).Append(v) }
func (s *ScalarBuilder) AppendI32(v int32)     { s.b.(*array.Int32Builder).Append(v) }
func (s *ScalarBuilder) AppendI64(v int64)     { s.b.(*array.Int64Builder).Append(v) }
func (s *ScalarBuilder) AppendU32(v uint32)    { s.b.(*array.Uint32Builder).Append(v) }
func (s *ScalarBuilder) AppendU64(v uint64)    { s.b.(*array.Uint64Builder).Append(v) }
func (s *ScalarBuilder) AppendF32(v float32)   { s.b.(*array.Float32Builder).Append(v) }
func (s *ScalarBuilder) AppendF64(v float64)   { s.b.(*array.Float64Builder).Append(v) }
func (s *ScalarBuilder) AppendString(v string) { s.b.(*array.StringBuilder).Append(v) }
func (s *ScalarBuilder) AppendBinary(v []byte) { s.b.(*array.BinaryBuilder).Append(v) }
