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
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// RootBuilder is the top of the column-builder tree: a row capacity-sized
// set of top-level column builders mirroring a ColumnarSchema. Unlike a
// nested StructBuilder, its rows are never null — one input message always
// contributes exactly one row — so it tracks a row count rather than a
// validity bitmap.
type RootBuilder struct {
	mem      memory.Allocator
	schema   *schema.ColumnarSchema
	names    []string
	children []Builder
	rows     int
}

// NewRootBuilder builds the column tree for s, pre-allocating capacity rows
// per column and pre-seeding every Dict builder from registry, per spec
// §4.2's Column Builder Factory contract. It fails with
// werror.KindSchema-tagged ErrDictionaryMissing if a Dict column
// references a dictionary id absent from registry, and KindSchema-tagged
// ErrUnsupportedType if a column's Kind has no builder mapping.
func NewRootBuilder(mem memory.Allocator, s *schema.ColumnarSchema, capacity int, registry *schema.DictionaryRegistry) (*RootBuilder, error) {
	names := make([]string, len(s.Columns))
	children := make([]Builder, len(s.Columns))
	for i, col := range s.Columns {
		b, err := newBuilder(mem, col, capacity, registry)
		if err != nil {
			return nil, err
		}
		names[i] = col.Name
		children[i] = b
	}
	return &RootBuilder{mem: mem, schema: s, names: names, children: children, rows: 0}, nil
}

// Open begins a new top-level row; the caller then appends exactly one
// value (or null) onto every entry of Children() in schema order.
func (r *RootBuilder) Open() { r.rows++ }

func (r *RootBuilder) Children() []Builder { return r.children }
func (r *RootBuilder) Child(i int) Builder { return r.children[i] }
func (r *RootBuilder) NumFields() int      { return len(r.children) }
func (r *RootBuilder) Len() int            { return r.rows }

// FinishRecord drains every top-level column and assembles them into a
// RecordBatch, resetting the tree's row count back to zero so it can be
// reused for the next window — the same "build in place, drain, reuse"
// lifecycle the teacher's RecordBuilder gives its column set
// (pkg/air/builder.go).
func (r *RootBuilder) FinishRecord() (*RecordBatch, error) {
	arrays := make([]interface{ Release() }, 0, len(r.children))
	cols := make([]columnArray, len(r.children))
	for i, c := range r.children {
		arr, err := c.(finisher).Finish()
		if err != nil {
			for _, a := range arrays {
				a.Release()
			}
			return nil, werror.WrapKind(werror.KindEncode, err)
		}
		cols[i] = columnArray{name: r.names[i], arr: arr}
		arrays = append(arrays, arr)
	}
	rows := r.rows
	r.rows = 0
	return newRecordBatch(r.mem, cols, rows)
}

// newBuilder dispatches on col.Kind to allocate the concrete builder,
// recursing for List/Struct. This is the same tagged-variant switch
// planner.planLeaf uses, now building mutable column state instead of a
// descriptor-shaped schema node.
func newBuilder(mem memory.Allocator, col *schema.Column, capacity int, registry *schema.DictionaryRegistry) (Builder, error) {
	switch col.Kind {
	case schema.KindList:
		elem, err := newBuilder(mem, col.Elem, capacity, registry)
		if err != nil {
			return nil, err
		}
		elemType, err := col.Elem.ArrowType()
		if err != nil {
			return nil, err
		}
		return newListBuilder(mem, elem, elemType, capacity), nil

	case schema.KindStruct:
		names := make([]string, len(col.Fields))
		children := make([]Builder, len(col.Fields))
		for i, f := range col.Fields {
			b, err := newBuilder(mem, f, capacity, registry)
			if err != nil {
				return nil, err
			}
			names[i] = f.Name
			children[i] = b
		}
		return newStructBuilder(mem, names, children, capacity), nil

	case schema.KindDict:
		dict, ok := registry.Lookup(col.Dict)
		if !ok {
			return nil, werror.WrapKindWithContext(werror.KindSchema, schema.ErrDictionaryMissing, map[string]interface{}{"column": col.Name, "dict_id": int32(col.Dict)})
		}
		return newDictBuilder(mem, dict, capacity), nil

	default:
		return newScalarBuilder(mem, col.Kind, capacity)
	}
}
