// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package lpm implements an in-memory longest-prefix-match table for IP
// routing entries, built on a tree-bitmap trie with a fixed stride of
// 4 bits.
//
// Each trie node packs its prefix and child layout into a single 32-bit
// word, next to two base indices described below: up to
// 15 internal prefixes of remainder length 0..3 in the low half, an
// end-node flag at bit 15, and either a 16-wide child bitmap or 16 more
// length-4 prefixes in the upper half. The search is performed entirely
// by bitmask operations (a precomputed match vector, then popcount-based
// rank) which modern CPUs execute with POPCNT-class instructions.
//
// Result values and child nodes are not heap objects; per trie they live
// in two shared, densely packed arrays managed by a segregated free-list
// allocator keyed by capacity class. A node addresses its slices of
// those arrays with a base index and the popcount of its bitmap, so
// inserting or removing a single prefix shifts items only within the
// class-sized regions of the nodes along its path, never across a whole
// array.
//
// Two layers are exported: Trie, the family-agnostic engine operating on
// nibble paths, and Table, the netip-facing facade holding one Trie per
// address family. Both are safe for concurrent readers but not for
// concurrent readers and writers; updates require external locking.
package lpm
