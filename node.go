// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import "github.com/tbitmap/lpm/internal/bitmap"

// node is one stride's worth of trie: a 32-bit result bitmap plus the
// bases of its slices into the trie's shared results and children
// arrays. Its own identity is entirely positional — a (parentBase,rank)
// pair in whichever array holds it — so node is a plain value, never
// boxed behind a pointer; it's copied in, mutated, and copied back by
// the Trie methods that own the arrays it indexes into.
type node struct {
	bitmap     uint32
	childBase  uint32
	resultBase uint32
}

func (n node) isEndNode() bool {
	return n.bitmap&(1<<bitmap.EndNodeBit) != 0
}

// resultCount returns how many result slots this node currently has
// allocated: the low 15 internal-prefix bits, plus the upper 16 bits
// when they hold length-4 results rather than a child bitmap.
func (n node) resultCount() int {
	c := bitmap.PopCount(n.bitmap & bitmap.LowMask)
	if n.isEndNode() {
		c += bitmap.PopCount(n.bitmap >> bitmap.UpperShift)
	}
	return c
}

// resultRank translates a result bit position into the offset of its
// value slot within the node's region. The end-node flag sits between
// the low and upper result halves and owns no slot, so it is masked out
// before ranking.
func (n node) resultRank(pos uint32) int {
	return bitmap.Rank(n.bitmap&^(1<<bitmap.EndNodeBit), pos)
}

func (n node) childCount() int {
	if n.isEndNode() {
		return 0
	}
	return bitmap.PopCount(n.bitmap >> bitmap.UpperShift)
}

func (n node) hasChild(nibble uint8) bool {
	return !n.isEndNode() && n.bitmap&childBit(nibble) != 0
}

func (n node) childRank(nibble uint8) int {
	return bitmap.Rank(n.bitmap>>bitmap.UpperShift, uint32(nibble))
}

func childBit(nibble uint8) uint32 {
	return 1 << (bitmap.UpperShift + uint32(nibble))
}

func endNodeResultBit(nibble uint8) uint32 {
	return 1 << bitmap.InternalBitPos(nibble, 4)
}

// nibbleAt returns path[0], or 0 if path is empty: at the final node of a
// walk whose remaining bit count is 0, only length-0 internal positions
// (which don't depend on the nibble value) are ever tested.
func nibbleAt(path []uint8) uint8 {
	if len(path) == 0 {
		return 0
	}
	return path[0]
}
