// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import "reflect"

// Equaler is a generic interface for types that can decide their own
// equality logic. It can be used to override the potentially expensive
// default comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// equalValues compares two stored values, preferring Equaler over
// reflect.DeepEqual.
func equalValues[V any](a, b V) bool {
	if e, ok := any(a).(Equaler[V]); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
