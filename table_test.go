// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package lpm

import (
	"net/netip"
	"testing"
)

var (
	mpa = netip.MustParseAddr
	mpp = netip.MustParsePrefix
)

func TestTableLookup(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("0.0.0.0/0"), "foo")
	tbl.Insert(mpp("10.0.0.0/8"), "bar")
	tbl.Insert(mpp("172.16.0.0/12"), "baz")
	tbl.Insert(mpp("192.168.0.0/16"), "quux")

	tests := []struct {
		ip   string
		want string
	}{
		{"10.0.0.1", "bar"},
		{"172.16.5.5", "baz"},
		{"192.168.1.1", "quux"},
		{"8.8.8.8", "foo"},
	}
	for _, tc := range tests {
		val, ok := tbl.Lookup(mpa(tc.ip))
		if !ok || val != tc.want {
			t.Errorf("Lookup(%s) = (%q, %v), want (%q, true)", tc.ip, val, ok, tc.want)
		}
	}

	if tbl.Size() != 4 || tbl.Size4() != 4 || tbl.Size6() != 0 {
		t.Fatalf("sizes = (%d, %d, %d), want (4, 4, 0)", tbl.Size(), tbl.Size4(), tbl.Size6())
	}
}

func TestTableLookupPrefixLPM(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("0.0.0.0/0"), "foo")
	tbl.Insert(mpp("10.0.0.0/8"), "bar")
	tbl.Insert(mpp("192.168.0.0/16"), "quux")

	pfx, val, ok := tbl.LookupPrefixLPM(mpp("10.1.0.0/16"))
	if !ok || pfx != mpp("10.0.0.0/8") || val != "bar" {
		t.Fatalf("LookupPrefixLPM(10.1.0.0/16) = (%s, %q, %v), want (10.0.0.0/8, bar, true)", pfx, val, ok)
	}

	pfx, val, ok = tbl.LookupPrefixLPM(mpp("11.0.0.0/8"))
	if !ok || pfx != mpp("0.0.0.0/0") || val != "foo" {
		t.Fatalf("LookupPrefixLPM(11.0.0.0/8) = (%s, %q, %v), want (0.0.0.0/0, foo, true)", pfx, val, ok)
	}

	// looking up a stored prefix finds itself
	pfx, val, ok = tbl.LookupPrefixLPM(mpp("192.168.0.0/16"))
	if !ok || pfx != mpp("192.168.0.0/16") || val != "quux" {
		t.Fatalf("LookupPrefixLPM(self) = (%s, %q, %v), want (192.168.0.0/16, quux, true)", pfx, val, ok)
	}

	empty := new(Table[string])
	if _, _, ok := empty.LookupPrefixLPM(mpp("10.0.0.0/8")); ok {
		t.Fatal("empty table must not match")
	}
}

func TestTableIPv6Smoke(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("::/0"), "default")
	tbl.Insert(mpp("2001:db8::/32"), "doc")

	pfx, val, ok := tbl.LookupPrefixLPM(mpp("2001:db8::1/128"))
	if !ok || pfx.Bits() != 32 || val != "doc" {
		t.Fatalf("inside = (%s, %q, %v), want (/32, doc, true)", pfx, val, ok)
	}

	pfx, val, ok = tbl.LookupPrefixLPM(mpp("2001:db9::1/128"))
	if !ok || pfx.Bits() != 0 || val != "default" {
		t.Fatalf("outside = (%s, %q, %v), want (/0, default, true)", pfx, val, ok)
	}

	if !tbl.Contains(mpa("fe80::1")) {
		t.Fatal("::/0 must cover every v6 address")
	}
	if tbl.Contains(mpa("1.2.3.4")) {
		t.Fatal("v6 default route must not leak into the v4 family")
	}
}

func TestTableGetDelete(t *testing.T) {
	tbl := new(Table[int])
	tbl.Insert(mpp("10.0.0.0/8"), 1)
	tbl.Insert(mpp("10.0.0.0/9"), 2)

	if val, ok := tbl.Get(mpp("10.0.0.0/8")); !ok || val != 1 {
		t.Fatalf("Get(/8) = (%d, %v), want (1, true)", val, ok)
	}
	if _, ok := tbl.Get(mpp("10.0.0.0/10")); ok {
		t.Fatal("Get must not fall back to a shorter prefix")
	}

	if val, ok := tbl.Delete(mpp("10.0.0.0/8")); !ok || val != 1 {
		t.Fatalf("Delete(/8) = (%d, %v), want (1, true)", val, ok)
	}
	if _, ok := tbl.Delete(mpp("10.0.0.0/8")); ok {
		t.Fatal("second Delete must be a no-op")
	}
	if tbl.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tbl.Size())
	}
}

func TestTableInsertMasksPrefix(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("10.1.2.3/8"), "bar")

	if val, ok := tbl.Get(mpp("10.0.0.0/8")); !ok || val != "bar" {
		t.Fatalf("Get(masked) = (%q, %v), want (bar, true)", val, ok)
	}
	if tbl.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tbl.Size())
	}
}

func TestTableAllRoundTrips(t *testing.T) {
	pfxs := []netip.Prefix{
		mpp("0.0.0.0/0"),
		mpp("10.0.0.0/7"),
		mpp("10.0.0.0/8"),
		mpp("10.32.0.0/11"),
		mpp("172.16.5.0/24"),
		mpp("192.168.1.1/32"),
		mpp("::/0"),
		mpp("2001:db8::/32"),
		mpp("2001:db8::1/128"),
		mpp("fe80::/10"),
	}

	tbl := new(Table[int])
	for i, pfx := range pfxs {
		tbl.Insert(pfx, i)
	}

	seen := map[netip.Prefix]int{}
	for pfx, val := range tbl.All() {
		seen[pfx] = val
	}

	if len(seen) != len(pfxs) {
		t.Fatalf("All yielded %d prefixes, want %d", len(seen), len(pfxs))
	}
	for i, pfx := range pfxs {
		if got, ok := seen[pfx]; !ok || got != i {
			t.Fatalf("prefix %s: got (%d, %v), want (%d, true)", pfx, got, ok, i)
		}
	}
}

type cloneVal struct {
	n *int
}

func (c cloneVal) Clone() cloneVal {
	m := *c.n
	return cloneVal{n: &m}
}

func TestTableCloneIsDeep(t *testing.T) {
	x := 7
	tbl := new(Table[cloneVal])
	tbl.Insert(mpp("10.0.0.0/8"), cloneVal{n: &x})

	cl := tbl.Clone()
	got, ok := cl.Get(mpp("10.0.0.0/8"))
	if !ok || *got.n != 7 {
		t.Fatalf("clone Get = (%v, %v)", got, ok)
	}

	*got.n = 99
	orig, _ := tbl.Get(mpp("10.0.0.0/8"))
	if *orig.n != 7 {
		t.Fatal("mutating the clone's value leaked into the original")
	}
}

func TestTableCloneIndependentStructure(t *testing.T) {
	tbl := new(Table[int])
	tbl.Insert(mpp("10.0.0.0/8"), 1)
	tbl.Insert(mpp("2001:db8::/32"), 2)

	cl := tbl.Clone()
	cl.Insert(mpp("192.168.0.0/16"), 3)
	cl.Delete(mpp("10.0.0.0/8"))

	if _, ok := tbl.Get(mpp("192.168.0.0/16")); ok {
		t.Fatal("insert into clone leaked into original")
	}
	if _, ok := tbl.Get(mpp("10.0.0.0/8")); !ok {
		t.Fatal("delete in clone leaked into original")
	}
}

func TestTableEqual(t *testing.T) {
	a := new(Table[int])
	b := new(Table[int])
	for i, pfx := range []netip.Prefix{mpp("10.0.0.0/8"), mpp("2001:db8::/32")} {
		a.Insert(pfx, i)
		b.Insert(pfx, i)
	}
	if !a.Equal(b) {
		t.Fatal("identical tables must be equal")
	}

	b.Insert(mpp("10.0.0.0/8"), 42)
	if a.Equal(b) {
		t.Fatal("tables with different values must not be equal")
	}

	b.Insert(mpp("10.0.0.0/8"), 0)
	b.Insert(mpp("192.168.0.0/16"), 9)
	if a.Equal(b) {
		t.Fatal("tables with different sizes must not be equal")
	}
}

func TestDumpListNesting(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("0.0.0.0/0"), "root")
	tbl.Insert(mpp("10.0.0.0/8"), "ten")
	tbl.Insert(mpp("10.0.0.0/16"), "ten-zero")
	tbl.Insert(mpp("10.1.0.0/16"), "ten-one")
	tbl.Insert(mpp("192.168.0.0/16"), "rfc1918")

	dl := tbl.DumpList4()
	if len(dl) != 1 || dl[0].CIDR != mpp("0.0.0.0/0") {
		t.Fatalf("top level = %+v, want single 0.0.0.0/0", dl)
	}
	top := dl[0]
	if len(top.Subnets) != 2 {
		t.Fatalf("subnets of /0 = %d, want 2 (10/8 and 192.168/16)", len(top.Subnets))
	}
	ten := top.Subnets[0]
	if ten.CIDR != mpp("10.0.0.0/8") || len(ten.Subnets) != 2 {
		t.Fatalf("10/8 node = %+v, want two /16 subnets", ten)
	}
	if ten.Subnets[0].CIDR != mpp("10.0.0.0/16") || ten.Subnets[1].CIDR != mpp("10.1.0.0/16") {
		t.Fatalf("10/8 subnets = %+v", ten.Subnets)
	}

	if got := tbl.DumpList6(); len(got) != 0 {
		t.Fatalf("DumpList6 on v4-only table = %+v, want empty", got)
	}
}
