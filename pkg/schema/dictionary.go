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
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// DictID identifies one enum's dictionary within a DictionaryRegistry. Zero
// is reserved; ids start at 1, per spec §3.
type DictID int32

// Dictionary is one enum's symbolic value vector, in descriptor declaration
// order, plus the tag->name lookup the transcoder needs at append time.
type Dictionary struct {
	ID      DictID
	Names   []string // declaration order
	Ordered bool     // true iff Names is lexicographically non-decreasing

	byNumber map[protoreflect.EnumNumber]string
}

// NameFor maps a proto enum tag to its symbolic name. ok is false when the
// tag has no mapping (spec's UnknownEnumValue case).
func (d *Dictionary) NameFor(n protoreflect.EnumNumber) (string, bool) {
	name, ok := d.byNumber[n]
	return name, ok
}

// DictionaryRegistry maps {dict_id: ordered list of symbolic names}. It is
// built once during the schema walk and is read-only thereafter (spec §3,
// §9 "no cyclic references in practice").
type DictionaryRegistry struct {
	byID   map[DictID]*Dictionary
	byEnum map[protoreflect.FullName]*Dictionary
	nextID DictID
}

// NewDictionaryRegistry returns an empty registry with id allocation
// starting at 1.
func NewDictionaryRegistry() *DictionaryRegistry {
	return &DictionaryRegistry{
		byID:   make(map[DictID]*Dictionary),
		byEnum: make(map[protoreflect.FullName]*Dictionary),
		nextID: 1,
	}
}

// registerEnum returns the Dictionary for ed, allocating a fresh id and
// value vector the first time a given enum type is encountered, and
// returning the existing entry on subsequent encounters (an enum type used
// by two fields shares one dictionary id).
func (r *DictionaryRegistry) registerEnum(ed protoreflect.EnumDescriptor) *Dictionary {
	if d, ok := r.byEnum[ed.FullName()]; ok {
		return d
	}

	values := ed.Values()
	names := make([]string, values.Len())
	byNumber := make(map[protoreflect.EnumNumber]string, values.Len())
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		name := string(v.Name())
		names[i] = name
		if _, seen := byNumber[v.Number()]; !seen {
			byNumber[v.Number()] = name
		}
	}

	d := &Dictionary{
		ID:       r.nextID,
		Names:    names,
		Ordered:  sort.StringsAreSorted(names),
		byNumber: byNumber,
	}
	r.byID[d.ID] = d
	r.byEnum[ed.FullName()] = d
	r.nextID++
	return d
}

// Lookup returns the Dictionary registered under id.
func (r *DictionaryRegistry) Lookup(id DictID) (*Dictionary, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Len returns the number of distinct enum dictionaries registered.
func (r *DictionaryRegistry) Len() int {
	return len(r.byID)
}
