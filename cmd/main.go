// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command lpmdemo exercises the routing table under a realistic mixed
// load: a bulk insert of random real-world-shaped prefixes, then
// concurrent lookups against a single churning writer, serialized with
// an RWMutex since the table itself is single-writer.
package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"sync"
	"time"
)

func main() {
	n := flag.Int("n", 100_000, "number of random prefixes to insert")
	interval := flag.Duration("interval", time.Second, "churn and stats interval")
	flag.Parse()

	prng := rand.New(rand.NewPCG(42, 42))
	log.SetFlags(log.Lmicroseconds)

	tbl := newRouteTable()

	pfxs := randomRealWorldPrefixes(prng, *n)
	ts := time.Now()
	for i, pfx := range pfxs {
		tbl.Insert(pfx, i)
	}
	log.Printf("insert %d random prefixes: %v, size: %d", len(pfxs), time.Since(ts), tbl.Size())

	mu := sync.RWMutex{}
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			mu.RLock()
			size4, size6 := tbl.Size4(), tbl.Size6()
			mu.RUnlock()
			log.Printf("Table.Size(): v4 %d, v6 %d", size4, size6)
			time.Sleep(*interval)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		lookupPrng := rand.New(rand.NewPCG(7, 7))
		for {
			ip := randomAddr(lookupPrng)
			mu.RLock()
			val, ok := tbl.Lookup(ip)
			mu.RUnlock()
			log.Printf("Table.Lookup(): %v, %d, %s", ok, val, ip)
			time.Sleep(time.Millisecond * 505)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		next := len(pfxs)
		for {
			fresh := randomRealWorldPrefixes(prng, 1_000)
			mu.Lock()
			for _, pfx := range fresh {
				tbl.Insert(pfx, next)
				next++
			}
			stale := collectShuffled(prng, tbl)
			p10 := len(stale) / 100 * 10
			for _, pfx := range stale[:p10] {
				tbl.Delete(pfx)
			}
			mu.Unlock()
			time.Sleep(*interval)
		}
	}()

	wg.Wait()
}
