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
)

// DictBuilder backs a Dict column. Unlike StringColumn in the teacher
// (pkg/air/column/string.go), which discovers its dictionary's values
// on the fly and only switches to dictionary encoding past a cardinality
// threshold, a DictBuilder's value vector is fixed up front from the enum
// descriptor's own declared values (schema.Dictionary.Names) — every
// value that can ever be appended is already known at planning time.
//
// Appends are buffered as symbolic names and only turned into an Arrow
// DictionaryArray at Finish, mirroring the teacher's NewStringArray:
// build the pre-seeded DictionaryBuilder, append the row values in one
// shot via AppendArray, then drain.
type DictBuilder struct {
	mem  memory.Allocator
	dict *schema.Dictionary
	data []*string
}

func newDictBuilder(mem memory.Allocator, dict *schema.Dictionary, capacity int) *DictBuilder {
	return &DictBuilder{mem: mem, dict: dict, data: make([]*string, 0, capacity)}
}

func (b *DictBuilder) AppendNull()       { b.data = append(b.data, nil) }
func (b *DictBuilder) AppendName(v string) { name := v; b.data = append(b.data, &name) }
func (b *DictBuilder) Len() int          { return len(b.data) }

// Finish builds the dictionary-encoded array: the seed/value array comes
// from the enum's full declared name list (so indices are stable across
// batches of the same message type), and the row values are appended as
// one string array via DictionaryBuilder.AppendArray, exactly as the
// teacher does for its data-driven dictionaries.
func (b *DictBuilder) Finish() (arrow.Array, error) {
	seedBuilder := array.NewStringBuilder(b.mem)
	for _, name := range b.dict.Names {
		seedBuilder.Append(name)
	}
	seed := seedBuilder.NewArray()
	defer seed.Release()

	dictBuilder := array.NewDictionaryBuilderWithDict(b.mem, schema.DictArrowType().(*arrow.DictionaryType), seed)

	valuesBuilder := array.NewStringBuilder(b.mem)
	valuesBuilder.Reserve(len(b.data))
	for _, v := range b.data {
		if v == nil {
			valuesBuilder.AppendNull()
		} else {
			valuesBuilder.Append(*v)
		}
	}
	values := valuesBuilder.NewArray()
	defer values.Release()

	if err := dictBuilder.AppendArray(values); err != nil {
		return nil, err
	}
	b.data = b.data[:0]
	return dictBuilder.NewArray(), nil
}
