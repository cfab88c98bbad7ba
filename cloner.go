// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

// Cloner is an interface that enables deep cloning of values of type V.
// If a value implements Cloner[V], Table.Clone uses its Clone method to
// perform deep copies; otherwise values are copied shallowly.
type Cloner[V any] interface {
	Clone() V
}

// cloneValue copies v, deeply if V implements Cloner[V].
func cloneValue[V any](v V) V {
	if c, ok := any(v).(Cloner[V]); ok {
		return c.Clone()
	}
	return v
}
