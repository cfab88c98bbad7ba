// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import (
	"math/bits"
	"net/netip"

	"github.com/bits-and-blooms/bitset"

	"github.com/tbitmap/lpm/internal/bitmap"
)

// Overlaps reports whether any stored prefix in t overlaps (covers or is
// covered by) any stored prefix in o.
func (t *Trie[V]) Overlaps(o *Trie[V]) bool {
	return t.overlapsRec(o, t.root, o.root)
}

// coverAndKids computes two nibble sets for n: cov, the nibbles whose
// full address range is covered by one of n's stored prefixes (internal
// lengths 0..3, plus length-4 results in an end-node), and kids, the
// nibbles with a child subtree below them. Every prefix inside a stride
// covers whole nibble ranges, so two prefixes overlap exactly when
// their covered-nibble sets intersect.
func coverAndKids(n node) (cov, kids *bitset.BitSet) {
	cov = bitset.New(16)
	kids = bitset.New(16)

	for nib := uint(0); nib < 16; nib++ {
		if n.bitmap&bitmap.MatchVector(uint8(nib)) != 0 {
			cov.Set(nib)
		}
	}

	endNode := n.isEndNode()
	for bm := n.bitmap >> bitmap.UpperShift; bm != 0; {
		nib := uint(bits.TrailingZeros32(bm))
		bm &= bm - 1
		if endNode {
			cov.Set(nib)
		} else {
			kids.Set(nib)
		}
	}
	return cov, kids
}

func (t *Trie[V]) overlapsRec(o *Trie[V], a, b node) bool {
	covA, kidsA := coverAndKids(a)
	covB, kidsB := coverAndKids(b)

	// a covered nibble range on either side swallows whatever the other
	// side stores under it, prefix or subtree alike.
	if covA.IntersectionCardinality(covB) > 0 {
		return true
	}
	if covA.IntersectionCardinality(kidsB) > 0 {
		return true
	}
	if covB.IntersectionCardinality(kidsA) > 0 {
		return true
	}

	// only nibbles with subtrees on both sides can still overlap.
	common := kidsA.Intersection(kidsB)
	for nib, ok := common.NextSet(0); ok; nib, ok = common.NextSet(nib + 1) {
		ca := t.children.Get(a.childBase + uint32(a.childRank(uint8(nib))))
		cb := o.children.Get(b.childBase + uint32(b.childRank(uint8(nib))))
		if t.overlapsRec(o, ca, cb) {
			return true
		}
	}
	return false
}

// OverlapsPath reports whether any stored prefix overlaps the prefix
// described by path/bits: either a stored prefix covers it, or it
// covers a stored prefix.
func (t *Trie[V]) OverlapsPath(path []uint8, bitsLen int) bool {
	if bitsLen < 0 || bitsLen > 4*len(path) {
		return false
	}

	n := t.root
	rem := bitsLen
	for rem >= 4 {
		nib := nibbleAt(path)
		if n.bitmap&bitmap.MatchVector(nib) != 0 {
			return true
		}
		if n.isEndNode() {
			// a length-4 result at nib is equal to or inside the
			// query's next stride; nothing else can lie below.
			return n.bitmap&endNodeResultBit(nib) != 0
		}
		if !n.hasChild(nib) {
			return false
		}
		if rem == 4 {
			// the query ends exactly at the child boundary, so the
			// whole child subtree is inside it; children are never
			// empty.
			return true
		}
		n = t.children.Get(n.childBase + uint32(n.childRank(nib)))
		path = path[1:]
		rem -= 4
	}

	// partial final stride: first, stored prefixes covering the query.
	nib := nibbleAt(path)
	for l := 0; l <= rem; l++ {
		if n.bitmap&(1<<bitmap.InternalBitPos(nib, l)) != 0 {
			return true
		}
	}

	// then anything stored strictly below the query's remainder, over
	// the nibble range the remainder spans.
	lo := int(nib >> (4 - rem) << (4 - rem))
	hi := lo + 1<<(4-rem)
	for q := lo; q < hi; q++ {
		for l := rem + 1; l <= 3; l++ {
			if n.bitmap&(1<<bitmap.InternalBitPos(uint8(q), l)) != 0 {
				return true
			}
		}
		if n.isEndNode() {
			if n.bitmap&endNodeResultBit(uint8(q)) != 0 {
				return true
			}
		} else if n.hasChild(uint8(q)) {
			return true
		}
	}
	return false
}

// Overlaps reports whether any prefix in t overlaps any prefix in o, in
// any address family.
func (t *Table[V]) Overlaps(o *Table[V]) bool {
	return t.Overlaps4(o) || t.Overlaps6(o)
}

// Overlaps4 is like [Table.Overlaps] but only for IPv4.
func (t *Table[V]) Overlaps4(o *Table[V]) bool {
	return t.trie4.Overlaps(&o.trie4)
}

// Overlaps6 is like [Table.Overlaps] but only for IPv6.
func (t *Table[V]) Overlaps6(o *Table[V]) bool {
	return t.trie6.Overlaps(&o.trie6)
}

// OverlapsPrefix reports whether any prefix in the table overlaps pfx.
func (t *Table[V]) OverlapsPrefix(pfx netip.Prefix) bool {
	if !pfx.IsValid() {
		return false
	}
	pfx = pfx.Masked()
	ip := pfx.Addr()
	return t.trieForVersion(ip.Is4()).OverlapsPath(nibblePath(ip), pfx.Bits())
}
