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

// Package schema walks a protobuf message descriptor once and produces a
// columnar schema plus a dictionary registry, per spec §4.1.
package schema

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Kind enumerates the logical column types named in spec §3. Kind is the
// tagged-variant the design notes (spec §9) ask for in place of reflective
// dispatch on field kind.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindI32
	KindI64
	KindU32
	KindU64
	KindF32
	KindF64
	KindUtf8
	KindBinary
	KindList
	KindStruct
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindI32:
		return "I32"
	case KindI64:
		return "I64"
	case KindU32:
		return "U32"
	case KindU64:
		return "U64"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindUtf8:
		return "Utf8"
	case KindBinary:
		return "Binary"
	case KindList:
		return "List"
	case KindStruct:
		return "Struct"
	case KindDict:
		return "Dict<I32,Utf8>"
	default:
		return "Invalid"
	}
}

// leafKind maps a scalar protobuf Kind onto this schema's logical Kind.
// Signed-varint and fixed-width integer kinds of the same width/signedness
// collapse to the same logical type, per spec §3's mapping rules.
func leafKind(k protoreflect.Kind) (Kind, bool) {
	switch k {
	case protoreflect.BoolKind:
		return KindBool, true
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return KindI32, true
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return KindU32, true
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return KindI64, true
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return KindU64, true
	case protoreflect.FloatKind:
		return KindF32, true
	case protoreflect.DoubleKind:
		return KindF64, true
	case protoreflect.StringKind:
		return KindUtf8, true
	case protoreflect.BytesKind:
		return KindBinary, true
	case protoreflect.EnumKind:
		return KindDict, true
	default:
		return KindInvalid, false
	}
}

// arrowType returns the arrow.DataType for every logical type that maps to
// a fixed, self-contained Arrow type. List and Struct are composite and are
// built by the caller from their element/child types instead.
func (k Kind) arrowType() (arrow.DataType, error) {
	switch k {
	case KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case KindI32:
		return arrow.PrimitiveTypes.Int32, nil
	case KindI64:
		return arrow.PrimitiveTypes.Int64, nil
	case KindU32:
		return arrow.PrimitiveTypes.Uint32, nil
	case KindU64:
		return arrow.PrimitiveTypes.Uint64, nil
	case KindF32:
		return arrow.PrimitiveTypes.Float32, nil
	case KindF64:
		return arrow.PrimitiveTypes.Float64, nil
	case KindUtf8:
		return arrow.BinaryTypes.String, nil
	case KindBinary:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, fmt.Errorf("logical type %s has no direct arrow.DataType", k)
	}
}

// DictArrowType is the Arrow representation of a Dict<I32→Utf8> column.
func DictArrowType() arrow.DataType {
	return &arrow.DictionaryType{
		IndexType: arrow.PrimitiveTypes.Int32,
		ValueType: arrow.BinaryTypes.String,
		Ordered:   false,
	}
}
