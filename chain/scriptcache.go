// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/mstiv/libbitcoin/txscript"
)

// ScriptCache is a bounded, concurrency-safe map from outpoints to the
// locking scripts of the outputs they identify.  Previous-output resolution
// is a cross-transaction lookup performed by upstream validation; the
// resolved scripts are published here so signature operation accounting can
// consume them as read-only snapshots without reaching into shared mutable
// state.
//
// Entries are treated as immutable once added.  When the cache is full a
// pseudo-random existing entry is evicted to make room, so the cache is an
// accelerator, never a correctness dependency: a miss simply contributes
// zero pay-to-script-hash operations and the caller that trusts the
// accounting is responsible for having populated the entries it needs.
type ScriptCache struct {
	mtx        sync.RWMutex
	scripts    map[OutPoint]*txscript.Script
	maxEntries uint
}

// NewScriptCache creates a script cache that holds at most maxEntries
// resolved scripts.
func NewScriptCache(maxEntries uint) *ScriptCache {
	return &ScriptCache{
		scripts:    make(map[OutPoint]*txscript.Script),
		maxEntries: maxEntries,
	}
}

// Lookup returns the locking script resolved for the given outpoint, or nil
// when the outpoint has not been resolved.  The returned script must be
// treated as read only.
//
// This function is safe for concurrent access.
func (c *ScriptCache) Lookup(outPoint OutPoint) *txscript.Script {
	c.mtx.RLock()
	script := c.scripts[outPoint]
	c.mtx.RUnlock()
	return script
}

// Add publishes the locking script resolved for the given outpoint.  The
// cache takes its own copy so later caller mutations cannot leak into
// concurrent readers.  When the cache is full a pseudo-random entry is
// evicted first.
//
// This function is safe for concurrent access.
func (c *ScriptCache) Add(outPoint OutPoint, script *txscript.Script) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.maxEntries == 0 {
		return
	}

	if _, exists := c.scripts[outPoint]; !exists &&
		uint(len(c.scripts)+1) > c.maxEntries {
		// Pick a victim index at random and skip to it; Go's map
		// iteration order provides the rest of the randomization.
		var buf [8]byte
		victim := uint64(0)
		if _, err := rand.Read(buf[:]); err == nil {
			victim = binary.LittleEndian.Uint64(buf[:]) %
				uint64(len(c.scripts))
		}
		for existing := range c.scripts {
			if victim == 0 {
				delete(c.scripts, existing)
				break
			}
			victim--
		}
	}

	cp := script.Copy()
	c.scripts[outPoint] = &cp
}

// Len returns the number of resolved scripts currently held.
//
// This function is safe for concurrent access.
func (c *ScriptCache) Len() int {
	c.mtx.RLock()
	n := len(c.scripts)
	c.mtx.RUnlock()
	return n
}
