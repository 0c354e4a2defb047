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

package werror

import (
	"errors"
	"runtime"
)

// Kind tags an error with which part of the ingestion taxonomy produced it,
// so callers can branch on kind instead of matching error strings.
type Kind int

const (
	// KindUnknown is the zero value; errors that never pass through
	// WrapKind keep this kind.
	KindUnknown Kind = iota
	// KindSchema covers descriptor-not-found, dictionary-missing, and
	// unsupported-leaf-type failures raised while planning a schema or
	// building a column tree. Fatal at construction time.
	KindSchema
	// KindTypeCast covers a reflected value that cannot be interpreted
	// under the planned logical type.
	KindTypeCast
	// KindUnknownEnum covers an enum integer with no symbolic mapping.
	KindUnknownEnum
	// KindEncode covers encoder rejection or byte-sink failure.
	KindEncode
	// KindSink covers object-store write failure.
	KindSink
	// KindPipelineClosed marks the upstream channel having closed.
	KindPipelineClosed
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindTypeCast:
		return "TypeCastError"
	case KindUnknownEnum:
		return "UnknownEnumValue"
	case KindEncode:
		return "EncodeError"
	case KindSink:
		return "SinkError"
	case KindPipelineClosed:
		return "PipelineClosed"
	default:
		return "Unknown"
	}
}

// kinded is implemented by Wrapper once it carries a Kind.
type kinded interface {
	Kind() Kind
}

// WrapKind wraps err the same way Wrap does, additionally tagging it with
// kind so it can be recovered later with KindOf.
func WrapKind(kind Kind, err error) error {
	return wrapKindAt(2, kind, err, nil)
}

// WrapKindWithContext is WrapWithContext plus a Kind tag.
func WrapKindWithContext(kind Kind, err error, context map[string]interface{}) error {
	return wrapKindAt(2, kind, err, context)
}

// wrapKindAt builds a tagged Wrapper recording the call site skip frames
// above itself.
func wrapKindAt(skip int, kind Kind, err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	pc, file, line, _ := runtime.Caller(skip)
	return Wrapper{err: err, file: file, line: line, function: runtime.FuncForPC(pc).Name(), context: context, kind: kind}
}

// KindOf returns the Kind of the outermost Wrapper in err's chain. A
// Wrapper built by Wrap/WrapWithContext carries KindUnknown, so it hides
// any Kind attached further down the chain. KindUnknown is also returned
// when the chain holds no Wrapper at all.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Is reports whether KindOf(err) equals kind; only the outermost Wrapper's
// Kind is compared.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
