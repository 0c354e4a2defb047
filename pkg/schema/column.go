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

package schema

import (
	"github.com/apache/arrow/go/v12/arrow"
)

// Column is one node of a ColumnarSchema: a name, a logical type, and a
// nullability flag (spec §3). Composite kinds carry their children inline
// so the schema is a self-contained tree, mirroring the descriptor tree it
// was planned from.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool

	// Elem is set when Kind == KindList: the logical type of one element.
	Elem *Column

	// Fields is set when Kind == KindStruct: the nested columns, in
	// descriptor declaration order.
	Fields []*Column

	// Dict is set when Kind == KindDict: the registry id of the backing
	// enum dictionary.
	Dict DictID
}

// ArrowField converts a Column into its arrow.Field representation,
// recursing into List/Struct children. This is what the Column Builder
// Factory and the Columnar Encoder both build arrow.Schema from.
func (c *Column) ArrowField() (arrow.Field, error) {
	dt, err := c.ArrowType()
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{Name: c.Name, Type: dt, Nullable: c.Nullable}, nil
}

// ArrowType returns the arrow.DataType this column maps to, recursing into
// List/Struct children.
func (c *Column) ArrowType() (arrow.DataType, error) {
	switch c.Kind {
	case KindList:
		elemField, err := c.Elem.ArrowField()
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elemField.Type), nil
	case KindStruct:
		fields := make([]arrow.Field, len(c.Fields))
		for i, f := range c.Fields {
			af, err := f.ArrowField()
			if err != nil {
				return nil, err
			}
			fields[i] = af
		}
		return arrow.StructOf(fields...), nil
	case KindDict:
		return DictArrowType(), nil
	default:
		return c.Kind.arrowType()
	}
}

// ColumnarSchema is the ordered list of top-level columns planned from one
// message descriptor (spec §3).
type ColumnarSchema struct {
	Columns []*Column
}

// ArrowSchema builds the arrow.Schema equivalent to s. pkg/pipeline hands
// it to the Columnar Encoder, which writes it as the stream schema when a
// sealed window carries no batches.
func (s *ColumnarSchema) ArrowSchema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s.Columns))
	for i, c := range s.Columns {
		f, err := c.ArrowField()
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return arrow.NewSchema(fields, nil), nil
}

// Equal reports whether two schemas describe the same columns in the same
// order with the same types and nullability — the equality spec §8's
// round-trip property and Temporal Window invariant require.
func (s *ColumnarSchema) Equal(other *ColumnarSchema) bool {
	if other == nil || len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if !c.equal(other.Columns[i]) {
			return false
		}
	}
	return true
}

func (c *Column) equal(other *Column) bool {
	if other == nil || c.Name != other.Name || c.Kind != other.Kind || c.Nullable != other.Nullable {
		return false
	}
	switch c.Kind {
	case KindList:
		return c.Elem.equal(other.Elem)
	case KindStruct:
		if len(c.Fields) != len(other.Fields) {
			return false
		}
		for i, f := range c.Fields {
			if !f.equal(other.Fields[i]) {
				return false
			}
		}
		return true
	case KindDict:
		return c.Dict == other.Dict
	default:
		return true
	}
}
