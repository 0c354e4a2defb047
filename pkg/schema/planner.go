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
	"errors"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/open-telemetry/otel-arrow-ingest/pkg/werror"
)

// ErrSchemaNotFound is returned when the requested message name is absent
// from the descriptor pool.
var ErrSchemaNotFound = errors.New("schema: message not found in descriptor pool")

// ErrDictionaryMissing is returned when an enum column is emitted but its
// registry entry could not be produced.
var ErrDictionaryMissing = errors.New("schema: dictionary registry entry missing for enum column")

// ErrUnsupportedType is returned when a field's kind has no columnar
// mapping under spec §3.
var ErrUnsupportedType = errors.New("schema: unsupported leaf type")

// Plan walks descriptor depth-first (spec §4.1) and produces a
// ColumnarSchema plus the DictionaryRegistry populated along the way. files
// is the already-loaded descriptor pool (its construction is an external
// collaborator, out of scope per spec §1); messageName is the fully
// qualified source message name; projection, if non-nil, prunes leaves
// whose dotted path is not present, keeping intermediate Struct nodes that
// still contain at least one kept leaf.
func Plan(files *protoregistry.Files, messageName string, projection map[string]struct{}) (*ColumnarSchema, *DictionaryRegistry, protoreflect.MessageDescriptor, error) {
	desc, err := files.FindDescriptorByName(protoreflect.FullName(messageName))
	if err != nil {
		return nil, nil, nil, werror.WrapKindWithContext(werror.KindSchema, ErrSchemaNotFound, map[string]interface{}{"message": messageName, "cause": err.Error()})
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, nil, nil, werror.WrapKindWithContext(werror.KindSchema, ErrSchemaNotFound, map[string]interface{}{"message": messageName, "reason": "not a message descriptor"})
	}

	registry := NewDictionaryRegistry()
	columns, _, err := planMessage(md, "", projection, registry)
	if err != nil {
		return nil, nil, nil, err
	}
	return &ColumnarSchema{Columns: columns}, registry, md, nil
}

// planMessage walks one message descriptor's direct fields (not recursing
// through `projection` filtering of grandchildren yet — that happens
// per-field in planField). It returns the kept columns and whether any
// field survived pruning.
func planMessage(md protoreflect.MessageDescriptor, pathPrefix string, projection map[string]struct{}, registry *DictionaryRegistry) ([]*Column, bool, error) {
	fields := md.Fields()
	if fields.Len() == 0 {
		// A message with zero fields degenerates to a Bool presence
		// marker; this is handled by the caller (planField), not here,
		// since it needs the field's own name. planMessage is only ever
		// called with a non-empty intent to enumerate children, so an
		// empty result here just means "no kept children".
		return nil, false, nil
	}

	cols := make([]*Column, 0, fields.Len())
	anyKept := false
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		path := string(fd.Name())
		if pathPrefix != "" {
			path = pathPrefix + "." + path
		} else {
			path = string(fd.Name())
		}
		col, keep, err := planField(fd, path, projection, registry)
		if err != nil {
			return nil, false, err
		}
		if keep {
			cols = append(cols, col)
			anyKept = true
		}
	}
	return cols, anyKept, nil
}

// planField plans one field descriptor into a Column. keep is false when
// projection pruning drops this field's entire subtree.
func planField(fd protoreflect.FieldDescriptor, path string, projection map[string]struct{}, registry *DictionaryRegistry) (*Column, bool, error) {
	if fd.IsList() {
		elem, keep, err := planLeaf(fd, path, projection, registry, true)
		if err != nil || !keep {
			return nil, keep, err
		}
		return &Column{
			Name:     string(fd.Name()),
			Kind:     KindList,
			Nullable: true, // a null list is distinct from an empty list, spec §3/§8
			Elem:     elem,
		}, true, nil
	}
	return planLeaf(fd, path, projection, registry, false)
}

// planLeaf plans a scalar/message/enum field (repeated or not — insideList
// tells us whether fd's own repeated-ness has already been consumed by the
// caller, since IsList() both indicates and governs the element kind).
func planLeaf(fd protoreflect.FieldDescriptor, path string, projection map[string]struct{}, registry *DictionaryRegistry, insideList bool) (*Column, bool, error) {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		md := fd.Message()
		if md.Fields().Len() == 0 {
			if !keepPath(path, projection) {
				return nil, false, nil
			}
			return &Column{Name: string(fd.Name()), Kind: KindBool, Nullable: true}, true, nil
		}
		children, anyKept, err := planMessage(md, path, projection, registry)
		if err != nil {
			return nil, false, err
		}
		if projection != nil && !anyKept {
			return nil, false, nil
		}
		return &Column{
			Name:     string(fd.Name()),
			Kind:     KindStruct,
			Nullable: true,
			Fields:   children,
		}, true, nil

	case protoreflect.EnumKind:
		if !keepPath(path, projection) {
			return nil, false, nil
		}
		dict := registry.registerEnum(fd.Enum())
		if dict == nil {
			return nil, false, werror.WrapKind(werror.KindSchema, ErrDictionaryMissing)
		}
		return &Column{
			Name:     string(fd.Name()),
			Kind:     KindDict,
			Nullable: !insideList && fd.HasPresence(),
			Dict:     dict.ID,
		}, true, nil

	default:
		if !keepPath(path, projection) {
			return nil, false, nil
		}
		k, ok := leafKind(fd.Kind())
		if !ok {
			return nil, false, werror.WrapKindWithContext(werror.KindSchema, ErrUnsupportedType, map[string]interface{}{"field": path, "kind": fd.Kind().String()})
		}
		return &Column{
			Name:     string(fd.Name()),
			Kind:     k,
			Nullable: !insideList && fd.HasPresence(),
		}, true, nil
	}
}

// keepPath reports whether path should be kept under projection. A nil
// projection keeps everything.
func keepPath(path string, projection map[string]struct{}) bool {
	if projection == nil {
		return true
	}
	_, ok := projection[path]
	return ok
}

// DescribeField is a small debugging helper used by tests and the schema
// dump tool to render a human path->kind summary without walking the
// arrow.Schema by hand.
func DescribeField(c *Column) string {
	if c.Kind == KindList {
		return fmt.Sprintf("%s: List<%s>", c.Name, DescribeField(c.Elem))
	}
	return fmt.Sprintf("%s: %s", c.Name, c.Kind)
}
