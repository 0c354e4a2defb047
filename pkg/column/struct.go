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
)

// StructBuilder backs a nested Struct column, adapted from the teacher's
// StructColumn (pkg/air/column/struct.go). The root of the column-builder
// tree is not a StructBuilder: it is a RootBuilder (factory.go), which
// tracks a row count instead of a validity bitmap since its rows are
// never null.
type StructBuilder struct {
	mem      memory.Allocator
	names    []string
	children []Builder
	valid    []bool
}

func newStructBuilder(mem memory.Allocator, names []string, children []Builder, capacity int) *StructBuilder {
	return &StructBuilder{
		mem:      mem,
		names:    names,
		children: children,
		valid:    make([]bool, 0, capacity),
	}
}

// AppendNull nulls out every descendant leaf, per spec §4.3's Struct
// null-propagation rule: a present-but-absent message field appends null
// through its entire subtree, not just a top validity bit.
func (b *StructBuilder) AppendNull() {
	for _, c := range b.children {
		c.AppendNull()
	}
	b.valid = append(b.valid, false)
}

// Open begins a present struct row; the caller appends exactly one value
// (or null) to each entry of Children() before moving to the next row.
func (b *StructBuilder) Open() {
	b.valid = append(b.valid, true)
}

func (b *StructBuilder) Children() []Builder { return b.children }
func (b *StructBuilder) Child(i int) Builder { return b.children[i] }
func (b *StructBuilder) NumFields() int      { return len(b.children) }

func (b *StructBuilder) Len() int { return len(b.valid) }

// Finish drains every child column and assembles the Arrow struct array by
// hand from the child arrays plus the row validity bitmap, the same shape
// the teacher's list/struct columns use for their own array.NewData calls.
func (b *StructBuilder) Finish() (arrow.Array, error) {
	fields := make([]arrow.Field, len(b.children))
	childData := make([]arrow.ArrayData, len(b.children))
	for i, c := range b.children {
		arr, err := c.(finisher).Finish()
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: b.names[i], Type: arr.DataType(), Nullable: true}
		childData[i] = arr.Data()
		defer arr.Release()
	}

	validityBuf, nulls := buildValidityBitmap(b.mem, b.valid)

	data := array.NewData(
		arrow.StructOf(fields...),
		len(b.valid),
		[]*memory.Buffer{validityBuf},
		childData,
		nulls,
		0,
	)
	defer data.Release()

	arr := array.NewStructData(data)
	b.valid = b.valid[:0]
	return arr, nil
}
