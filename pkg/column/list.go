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

// ListBuilder backs a List column: a flattened element builder plus a
// per-row offset/validity pair recovering sub-lists from it, adapted from
// the teacher's ListColumnBase (pkg/air/column/list.go). The teacher
// maintains its own bitmap incrementally via Reserve/resize; since this
// tree only ever drains once per window at Finish, the bitmap here is
// built in a single pass (buildValidityBitmap) instead.
type ListBuilder struct {
	mem     memory.Allocator
	elem    Builder
	elemDT  arrow.DataType
	offsets []int32
	valid   []bool
}

func newListBuilder(mem memory.Allocator, elem Builder, elemDT arrow.DataType, capacity int) *ListBuilder {
	return &ListBuilder{
		mem:     mem,
		elem:    elem,
		elemDT:  elemDT,
		offsets: make([]int32, 0, capacity),
		valid:   make([]bool, 0, capacity),
	}
}

// AppendNull appends a null list (distinct from a present, empty list).
func (b *ListBuilder) AppendNull() {
	b.offsets = append(b.offsets, int32(b.elem.Len()))
	b.valid = append(b.valid, false)
}

// Open begins a present list row at the current element-builder offset.
// The caller then appends exactly the row's elements onto Elem() before
// moving to the next row.
func (b *ListBuilder) Open() {
	b.offsets = append(b.offsets, int32(b.elem.Len()))
	b.valid = append(b.valid, true)
}

// Elem returns the element builder so callers can append the row's values.
func (b *ListBuilder) Elem() Builder { return b.elem }

func (b *ListBuilder) Len() int { return len(b.valid) }

// Finish drains the list, exactly mirroring ListColumnBase.NewArray: a
// closing offset, the flattened element array, and a hand-built
// array.Data wrapping both plus the validity bitmap.
func (b *ListBuilder) Finish() (arrow.Array, error) {
	values, err := b.elem.(finisher).Finish()
	if err != nil {
		return nil, err
	}
	defer values.Release()

	offsetsBuilder := array.NewInt32Builder(b.mem)
	offsetsBuilder.Reserve(len(b.offsets) + 1)
	for _, o := range b.offsets {
		offsetsBuilder.Append(o)
	}
	offsetsBuilder.Append(int32(values.Len()))
	offsetsArr := offsetsBuilder.NewArray()
	defer offsetsArr.Release()
	offsetsBuf := offsetsArr.Data().Buffers()[1]

	validityBuf, nulls := buildValidityBitmap(b.mem, b.valid)

	data := array.NewData(
		arrow.ListOf(values.DataType()),
		len(b.valid),
		[]*memory.Buffer{validityBuf, offsetsBuf},
		[]arrow.ArrayData{values.Data()},
		nulls,
		0,
	)
	defer data.Release()

	listArr := array.NewListData(data)
	b.offsets = b.offsets[:0]
	b.valid = b.valid[:0]
	return listArr, nil
}
