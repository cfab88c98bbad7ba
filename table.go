// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import (
	"iter"
	"net/netip"
)

// Table is an IPv4 and IPv6 routing table with payload V, the
// netip-facing facade over two tree-bitmap Tries, one per address
// family. The zero value is ready to use.
//
// The Table is safe for concurrent readers but not for concurrent
// readers and/or writers; update operations must be protected by an
// external lock mechanism.
//
// A Table must not be copied by value.
type Table[V any] struct {
	// used by -copylocks checker from `go vet`.
	_ noCopy

	trie4 Trie[V]
	trie6 Trie[V]
}

// trieForVersion, trie getter for ip version.
func (t *Table[V]) trieForVersion(is4 bool) *Trie[V] {
	if is4 {
		return &t.trie4
	}
	return &t.trie6
}

// nibblePath converts ip into its big-endian 4-bit stride path:
// 8 nibbles for IPv4, 32 for IPv6.
func nibblePath(ip netip.Addr) []uint8 {
	raw := ip.AsSlice()
	path := make([]uint8, 0, 32)
	for _, b := range raw {
		path = append(path, b>>4, b&0xF)
	}
	return path
}

// prefixFromPath reconstructs the canonical netip.Prefix a trie entry
// describes. The path carries one nibble per element; nibbles past the
// bit length are zero by construction, so the result is already masked.
func prefixFromPath(path []uint8, bits int, is4 bool) netip.Prefix {
	var raw [16]byte
	for i, nib := range path {
		if i%2 == 0 {
			raw[i/2] |= nib << 4
		} else {
			raw[i/2] |= nib
		}
	}
	var ip netip.Addr
	if is4 {
		ip = netip.AddrFrom4([4]byte(raw[:4]))
	} else {
		ip = netip.AddrFrom16(raw)
	}
	return netip.PrefixFrom(ip, bits)
}

// Insert adds pfx to the table, with given val.
// If pfx is already present in the table, its value is set to val.
// Invalid prefixes are silently ignored.
func (t *Table[V]) Insert(pfx netip.Prefix, val V) {
	if !pfx.IsValid() {
		return
	}
	pfx = pfx.Masked()
	ip := pfx.Addr()

	// Growth cannot fail here: the table never configures a capacity
	// limit on its tries, and the prefix length is in range for the
	// path by construction.
	_, _, _ = t.trieForVersion(ip.Is4()).Insert(nibblePath(ip), pfx.Bits(), val)
}

// Delete removes pfx from the table, returning the deleted value and
// true if it was present. Deleting an absent prefix is a no-op.
func (t *Table[V]) Delete(pfx netip.Prefix) (val V, found bool) {
	if !pfx.IsValid() {
		return val, false
	}
	pfx = pfx.Masked()
	ip := pfx.Addr()

	val, found, _ = t.trieForVersion(ip.Is4()).Remove(nibblePath(ip), pfx.Bits())
	return val, found
}

// Get returns the value stored at exactly pfx, with no longest-prefix
// fallback.
func (t *Table[V]) Get(pfx netip.Prefix) (val V, ok bool) {
	if !pfx.IsValid() {
		return val, false
	}
	pfx = pfx.Masked()
	ip := pfx.Addr()

	return t.trieForVersion(ip.Is4()).ExactMatch(nibblePath(ip), pfx.Bits())
}

// Lookup does a route lookup (longest prefix match) for ip and returns
// the associated value and true, or false if no route matched.
func (t *Table[V]) Lookup(ip netip.Addr) (val V, ok bool) {
	if !ip.IsValid() {
		return val, false
	}
	_, val, ok = t.trieForVersion(ip.Is4()).LongestMatch(nibblePath(ip), ip.BitLen())
	return val, ok
}

// Contains reports whether any stored prefix covers ip.
func (t *Table[V]) Contains(ip netip.Addr) bool {
	_, ok := t.Lookup(ip)
	return ok
}

// LookupPrefix does a route lookup (longest prefix match) for pfx and
// returns the associated value and true, or false if no route matched.
func (t *Table[V]) LookupPrefix(pfx netip.Prefix) (val V, ok bool) {
	_, val, ok = t.lookupPrefixLPM(pfx)
	return val, ok
}

// LookupPrefixLPM is similar to [Table.LookupPrefix], but it returns
// the matching longest prefix in addition to value and ok.
func (t *Table[V]) LookupPrefixLPM(pfx netip.Prefix) (lpmPfx netip.Prefix, val V, ok bool) {
	return t.lookupPrefixLPM(pfx)
}

func (t *Table[V]) lookupPrefixLPM(pfx netip.Prefix) (lpmPfx netip.Prefix, val V, ok bool) {
	if !pfx.IsValid() {
		return lpmPfx, val, false
	}
	pfx = pfx.Masked()
	ip := pfx.Addr()

	matchLen, val, ok := t.trieForVersion(ip.Is4()).LongestMatch(nibblePath(ip), pfx.Bits())
	if !ok {
		return lpmPfx, val, false
	}
	return netip.PrefixFrom(ip, matchLen).Masked(), val, true
}

// Size returns the prefix count over both address families.
func (t *Table[V]) Size() int {
	return t.trie4.Len() + t.trie6.Len()
}

// Size4 returns the IPv4 prefix count.
func (t *Table[V]) Size4() int {
	return t.trie4.Len()
}

// Size6 returns the IPv6 prefix count.
func (t *Table[V]) Size6() int {
	return t.trie6.Len()
}

// All returns an iterator over all stored prefixes and values, IPv4
// first, in the trie's pre-order. The order is not sorted but stable
// between calls as long as the table isn't mutated.
func (t *Table[V]) All() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		more := true
		t.trie4.All(func(e Entry[V]) bool {
			more = yield(prefixFromPath(e.Path, e.Bits, true), e.Value)
			return more
		})
		if !more {
			return
		}
		t.trie6.All(func(e Entry[V]) bool {
			return yield(prefixFromPath(e.Path, e.Bits, false), e.Value)
		})
	}
}

// All4 is like [Table.All] but only for IPv4 prefixes.
func (t *Table[V]) All4() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		t.trie4.All(func(e Entry[V]) bool {
			return yield(prefixFromPath(e.Path, e.Bits, true), e.Value)
		})
	}
}

// All6 is like [Table.All] but only for IPv6 prefixes.
func (t *Table[V]) All6() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		t.trie6.All(func(e Entry[V]) bool {
			return yield(prefixFromPath(e.Path, e.Bits, false), e.Value)
		})
	}
}

// Clone returns a copy of the routing table. The values are copied
// shallowly, or deeply if V implements Cloner[V].
func (t *Table[V]) Clone() *Table[V] {
	c := new(Table[V])
	for pfx, val := range t.All() {
		c.Insert(pfx, cloneValue(val))
	}
	return c
}

// Equal reports whether both tables contain the same prefixes with
// equal values. Values are compared with Equaler[V] if implemented,
// reflect.DeepEqual otherwise.
func (t *Table[V]) Equal(o *Table[V]) bool {
	if t.Size4() != o.Size4() || t.Size6() != o.Size6() {
		return false
	}
	equal := true
	for pfx, val := range t.All() {
		ov, ok := o.Get(pfx)
		if !ok || !equalValues(val, ov) {
			equal = false
			break
		}
	}
	return equal
}
