package cache

import (
	"fmt"
	"strings"
)

// Key identifies one cached value. Keys are only built through a Keyspace so
// list and detail keys of a resource follow a single naming scheme.
type Key struct {
	resource string
	name     string
}

// String returns the storage key.
func (k Key) String() string {
	return k.name
}

// Resource returns the plural resource the key belongs to.
func (k Key) Resource() string {
	return k.resource
}

// IsZero reports whether the key was never built.
func (k Key) IsZero() bool {
	return k.name == ""
}

// Keyspace names the keys of one resource type.
type Keyspace struct {
	Plural   string
	Singular string
}

// NewKeyspace returns a keyspace for a resource such as ("brands", "brand").
func NewKeyspace(plural, singular string) Keyspace {
	return Keyspace{
		Plural:   strings.ToLower(strings.TrimSpace(plural)),
		Singular: strings.ToLower(strings.TrimSpace(singular)),
	}
}

// Page is the key of a listing page, "<plural>_page_<page>_paginate_<size>".
func (k Keyspace) Page(page, size int) Key {
	return Key{
		resource: k.Plural,
		name:     fmt.Sprintf("%s_page_%d_paginate_%d", k.Plural, page, size),
	}
}

// Entity is the key of a single record, "<singular>_<id>".
func (k Keyspace) Entity(id string) Key {
	return Key{
		resource: k.Plural,
		name:     k.Singular + "_" + id,
	}
}

// FirstPages returns the page 1 keys for every page size from 0 to maxSize.
func (k Keyspace) FirstPages(maxSize int) []Key {
	if maxSize < 0 {
		maxSize = 0
	}
	keys := make([]Key, 0, maxSize+1)
	for size := 0; size <= maxSize; size++ {
		keys = append(keys, k.Page(1, size))
	}
	return keys
}
