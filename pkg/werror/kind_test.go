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
	"testing"

	"github.com/stretchr/testify/assert"
)

var errKindTest = errors.New("kind test error")

func TestWrapKindTagsTheErrorsKind(t *testing.T) {
	err := WrapKind(KindSink, errKindTest)
	require := assert.New(t)
	require.Equal(KindSink, KindOf(err))
	require.ErrorIs(err, errKindTest)
}

func TestWrapKindOnNilReturnsNil(t *testing.T) {
	assert.Nil(t, WrapKind(KindSink, nil))
}

func TestKindOfReturnsTheOutermostTaggedKind(t *testing.T) {
	inner := WrapKind(KindSchema, errKindTest)
	outer := WrapKind(KindEncode, inner)

	assert.Equal(t, KindEncode, KindOf(outer), "the most recently applied WrapKind wins when a chain is tagged more than once")
}

func TestKindOfIsShadowedByAnUntaggedOuterWrap(t *testing.T) {
	inner := WrapKind(KindUnknownEnum, errKindTest)
	outer := WrapWithContext(inner, map[string]interface{}{"step": "outer"})

	assert.Equal(t, KindUnknown, KindOf(outer), "a plain WrapWithContext above a tagged error is itself a Wrapper, so it is the first Kind errors.As finds")
}

func TestKindOfReturnsUnknownWithoutAnyTaggedKind(t *testing.T) {
	err := WrapWithContext(errKindTest, nil)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestIsReportsWhetherAKindIsPresent(t *testing.T) {
	err := WrapKind(KindEncode, errKindTest)
	assert.True(t, Is(err, KindEncode))
	assert.False(t, Is(err, KindSchema))
}

func TestKindStringNamesEveryTaggedKind(t *testing.T) {
	cases := map[Kind]string{
		KindSchema:         "SchemaError",
		KindTypeCast:       "TypeCastError",
		KindUnknownEnum:    "UnknownEnumValue",
		KindEncode:         "EncodeError",
		KindSink:           "SinkError",
		KindPipelineClosed: "PipelineClosed",
		KindUnknown:        "Unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
