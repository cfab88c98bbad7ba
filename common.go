// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import (
	"net/netip"
	"slices"
)

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// DumpListNode contains CIDR, Value and Subnets, representing the trie
// in a sorted, recursive representation, especially useful for serialization.
type DumpListNode[V any] struct {
	CIDR    netip.Prefix      `json:"cidr"`
	Value   V                 `json:"value"`
	Subnets []DumpListNode[V] `json:"subnets,omitempty"`
}

// DumpList4 returns the IPv4 prefixes as a sorted, recursive
// parent/subnet list.
func (t *Table[V]) DumpList4() []DumpListNode[V] {
	return dumpList(t.All4())
}

// DumpList6 returns the IPv6 prefixes as a sorted, recursive
// parent/subnet list.
func (t *Table[V]) DumpList6() []DumpListNode[V] {
	return dumpList(t.All6())
}

type dumpEntry[V any] struct {
	pfx netip.Prefix
	val V
}

func dumpList[V any](seq func(func(netip.Prefix, V) bool)) []DumpListNode[V] {
	var entries []dumpEntry[V]
	seq(func(pfx netip.Prefix, val V) bool {
		entries = append(entries, dumpEntry[V]{pfx, val})
		return true
	})

	// CIDR sort order: by address, shorter masks first. With this
	// ordering every prefix's subnets follow it contiguously.
	slices.SortFunc(entries, func(a, b dumpEntry[V]) int {
		if c := a.pfx.Addr().Compare(b.pfx.Addr()); c != 0 {
			return c
		}
		return a.pfx.Bits() - b.pfx.Bits()
	})

	return buildDumpList(entries)
}

func buildDumpList[V any](entries []dumpEntry[V]) []DumpListNode[V] {
	var out []DumpListNode[V]
	for i := 0; i < len(entries); {
		e := entries[i]
		j := i + 1
		for j < len(entries) && e.pfx.Contains(entries[j].pfx.Addr()) && e.pfx.Bits() <= entries[j].pfx.Bits() {
			j++
		}
		out = append(out, DumpListNode[V]{
			CIDR:    e.pfx,
			Value:   e.val,
			Subnets: buildDumpList(entries[i+1 : j]),
		})
		i = j
	}
	return out
}
