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

// Package transcode walks one reflected protobuf message against the
// column-builder tree a schema.ColumnarSchema produced, appending exactly
// one row per message (spec §4.3). Field dispatch is grounded on the same
// protoreflect.Message.Get/Has walk
// other_examples/41a791dd_google-taxinomia__core-protoloader-loader.go.go
// uses to flatten a message into typed row values; the difference here is
// that values are pushed straight into Arrow builders instead of being
// collected into an []any row.
package transcode

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/column"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/schema"
	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// ErrUnknownEnumValue is returned when a reflected enum field carries a
// wire value absent from its dictionary, per spec §4.3/§8.
var ErrUnknownEnumValue = errors.New("transcode: enum value has no symbolic name in its dictionary")

// Transcoder appends reflected messages into a reusable column-builder
// tree and drains it into a RecordBatch on Flush, matching the teacher's
// RecordBuilder build-in-place/drain/reuse lifecycle (pkg/air/builder.go).
type Transcoder struct {
	root     *column.RootBuilder
	columns  []*schema.Column
	md       protoreflect.MessageDescriptor
	registry *schema.DictionaryRegistry
	redact   map[string]*redactor
}

// New builds a Transcoder for s, rooted at md (the same descriptor Plan
// resolved s from). redactFields names dotted leaf paths that should be
// format-preserving-encrypted before being appended; key seeds the cipher.
func New(mem memory.Allocator, s *schema.ColumnarSchema, md protoreflect.MessageDescriptor, registry *schema.DictionaryRegistry, capacity int, redactFields []string, key string) (*Transcoder, error) {
	root, err := column.NewRootBuilder(mem, s, capacity, registry)
	if err != nil {
		return nil, err
	}

	var rdr *redactor
	if len(redactFields) > 0 {
		rdr = newRedactor(key)
	}
	redact := make(map[string]*redactor, len(redactFields))
	for _, path := range redactFields {
		redact[path] = rdr
	}

	return &Transcoder{root: root, columns: s.Columns, md: md, registry: registry, redact: redact}, nil
}

// Len returns the number of rows appended since the last Flush.
func (t *Transcoder) Len() int { return t.root.Len() }

// Append appends one row from msg. On error no column has been partially
// advanced for this row: Append validates before mutating any builder, so
// a failure never desynchronizes column lengths (spec §4.3's atomicity
// invariant).
func (t *Transcoder) Append(msg protoreflect.Message) error {
	if err := t.validate(t.columns, "", t.md, msg); err != nil {
		return err
	}
	t.root.Open()
	for i, col := range t.columns {
		fd := t.md.Fields().ByName(protoreflect.Name(col.Name))
		if err := appendField(t.root.Child(i), col, col.Name, fd, msg, t.registry, t.redact); err != nil {
			return werror.WrapKindWithContext(werror.KindTypeCast, err, map[string]interface{}{"column": col.Name})
		}
	}
	return nil
}

// validate performs a dry run of everything that can fail (currently:
// unknown enum values) before any builder is touched, so a rejected row
// never leaves the tree's columns at mismatched lengths.
func (t *Transcoder) validate(cols []*schema.Column, pathPrefix string, md protoreflect.MessageDescriptor, msg protoreflect.Message) error {
	for _, col := range cols {
		path := col.Name
		if pathPrefix != "" {
			path = pathPrefix + "." + path
		}
		fd := md.Fields().ByName(protoreflect.Name(col.Name))
		if fd == nil {
			continue
		}
		if err := validateField(col, path, fd, msg, t.registry); err != nil {
			return err
		}
	}
	return nil
}

func validateField(col *schema.Column, path string, fd protoreflect.FieldDescriptor, msg protoreflect.Message, registry *schema.DictionaryRegistry) error {
	if fd.IsList() {
		if col.Kind != schema.KindList {
			return nil
		}
		list := msg.Get(fd).List()
		switch col.Elem.Kind {
		case schema.KindDict:
			dict, _ := registry.Lookup(col.Elem.Dict)
			for i := 0; i < list.Len(); i++ {
				if _, ok := dict.NameFor(list.Get(i).Enum()); !ok {
					return werror.WrapKindWithContext(werror.KindUnknownEnum, ErrUnknownEnumValue, map[string]interface{}{"field": path, "value": int32(list.Get(i).Enum())})
				}
			}
		case schema.KindStruct:
			for i := 0; i < list.Len(); i++ {
				elem := list.Get(i).Message()
				for _, f := range col.Elem.Fields {
					cfd := fd.Message().Fields().ByName(protoreflect.Name(f.Name))
					if cfd == nil {
						continue
					}
					if err := validateField(f, path+"."+f.Name, cfd, elem, registry); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	switch col.Kind {
	case schema.KindDict:
		if !msg.Has(fd) {
			return nil
		}
		dict, _ := registry.Lookup(col.Dict)
		if _, ok := dict.NameFor(msg.Get(fd).Enum()); !ok {
			return werror.WrapKindWithContext(werror.KindUnknownEnum, ErrUnknownEnumValue, map[string]interface{}{"field": path, "value": int32(msg.Get(fd).Enum())})
		}
	case schema.KindStruct:
		if !msg.Has(fd) {
			return nil
		}
		child := msg.Get(fd).Message()
		for _, f := range col.Fields {
			cfd := fd.Message().Fields().ByName(protoreflect.Name(f.Name))
			if cfd == nil {
				continue
			}
			if err := validateField(f, path+"."+f.Name, cfd, child, registry); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush drains the column tree into a RecordBatch and resets row state.
func (t *Transcoder) Flush() (*column.RecordBatch, error) {
	return t.root.FinishRecord()
}

// appendField dispatches a single schema column's append against its
// source field, recursing into List and Struct children.
func appendField(b column.Builder, col *schema.Column, path string, fd protoreflect.FieldDescriptor, msg protoreflect.Message, registry *schema.DictionaryRegistry, redact map[string]*redactor) error {
	if fd == nil {
		b.AppendNull()
		return nil
	}

	if fd.IsList() {
		lb := b.(*column.ListBuilder)
		list := msg.Get(fd).List()
		// A repeated field with no elements is a present, zero-length list.
		lb.Open()
		for i := 0; i < list.Len(); i++ {
			if err := appendLeafValue(lb.Elem(), col.Elem, path, fd, list.Get(i), registry, redact, true); err != nil {
				return err
			}
		}
		return nil
	}

	// A field without presence tracking always has a value (its zero
	// value when unset); only presence-tracked fields can be null.
	present := !fd.HasPresence() || msg.Has(fd)
	return appendLeafValue(b, col, path, fd, msg.Get(fd), registry, redact, present)
}

// appendLeafValue appends one scalar/struct/dict value already extracted
// via protoreflect.Message.Get (or protoreflect.Value.List().Get for list
// elements, where present is always true since a proto list never
// contains holes). A false present appends a null.
func appendLeafValue(b column.Builder, col *schema.Column, path string, fd protoreflect.FieldDescriptor, val protoreflect.Value, registry *schema.DictionaryRegistry, redact map[string]*redactor, present bool) error {
	switch col.Kind {
	case schema.KindStruct:
		sb := b.(*column.StructBuilder)
		if !present {
			sb.AppendNull()
			return nil
		}
		sb.Open()
		msg := val.Message()
		for i, f := range col.Fields {
			cfd := fd.Message().Fields().ByName(protoreflect.Name(f.Name))
			if err := appendField(sb.Child(i), f, path+"."+f.Name, cfd, msg, registry, redact); err != nil {
				return err
			}
		}
		return nil

	case schema.KindDict:
		db := b.(*column.DictBuilder)
		if !present {
			db.AppendNull()
			return nil
		}
		dict, ok := registry.Lookup(col.Dict)
		if !ok {
			return werror.WrapKind(werror.KindSchema, schema.ErrDictionaryMissing)
		}
		name, ok := dict.NameFor(val.Enum())
		if !ok {
			return werror.WrapKindWithContext(werror.KindUnknownEnum, ErrUnknownEnumValue, map[string]interface{}{"field": path, "value": int32(val.Enum())})
		}
		db.AppendName(name)
		return nil

	case schema.KindBool:
		sb := b.(*column.ScalarBuilder)
		if !present {
			sb.AppendNull()
			return nil
		}
		if fd.Kind() == protoreflect.MessageKind {
			// Degenerate zero-field message planned as a Bool presence
			// marker (planner.planLeaf): a present message reads as true.
			sb.AppendBool(true)
			return nil
		}
		sb.AppendBool(val.Bool())
		return nil

	default:
		if !present {
			b.(*column.ScalarBuilder).AppendNull()
			return nil
		}
		sb := b.(*column.ScalarBuilder)
		switch col.Kind {
		case schema.KindI32:
			sb.AppendI32(int32(val.Int()))
		case schema.KindI64:
			sb.AppendI64(val.Int())
		case schema.KindU32:
			sb.AppendU32(uint32(val.Uint()))
		case schema.KindU64:
			sb.AppendU64(val.Uint())
		case schema.KindF32:
			sb.AppendF32(float32(val.Float()))
		case schema.KindF64:
			sb.AppendF64(val.Float())
		case schema.KindUtf8:
			s := val.String()
			if r, ok := redact[path]; ok {
				s = r.redact(s)
			}
			sb.AppendString(s)
		case schema.KindBinary:
			sb.AppendBinary(val.Bytes())
		default:
			return fmt.Errorf("transcode: unhandled leaf kind %s at %s", col.Kind, path)
		}
		return nil
	}
}
