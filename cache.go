// Copyright 2026. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package ludd

import (
	"fmt"
)

// ************************************************************
// cache is used for caching the results of union/minus/project etc.
type cache struct {
	cacheratio int // value used to resize the caches as a factor of the number of nodes
	table      []cacheData
}

// cacheStat stores status information about cache usage
type cacheStat struct {
	uniqueAccess int // accesses to the unique node table
	uniqueChain  int // iterations through the cache chains in the unique node table
	uniqueHit    int // entries actually found in the the unique node table
	uniqueMiss   int // entries not found in the the unique node table
	opHit        int // entries found in the operator caches
	opMiss       int // entries not found in the operator caches
}

// cacheData is a unit of information stored in the operation caches. An empty
// entry has a == -1; colliding entries are simply overwritten.
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

// ************************************************************

// Different kind of caches used in the LDD

type bincache struct {
	cache // Cache for Union, Minus and Intersect results
}

type projcache struct {
	cache // Cache for Project results
}

type relcache struct {
	cache // Cache for relational product results
}

// ************************************************************

// Hash value modifiers to distinguish between entries in relcache. Entries
// for RelProdMeta shift the meta node over cacheid_RELMETA.
const cacheid_RELPROD int = 0x0
const cacheid_RELNEXT int = 0x1
const cacheid_RELMETA int = 0x2

// ************************************************************

// Basic functions shared by all caches

func (bc *cache) cacheinit(size int) {
	// we never check if the creation of the slice panic because of lack of memory
	size = ldd_prime_gte(size)
	bc.table = make([]cacheData, size)
	bc.cachereset()
}

func (bc *cache) cacheresize(size int) {
	if bc.cacheratio > 0 {
		bc.cacheinit(size / bc.cacheratio)
		return
	}
	bc.cachereset()
}

func (bc *cache) cachereset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// *************************************************************************
// Setup and shutdown

func (b *LDD) cacheinit(cachesize int, cacheratio int) {
	if cachesize <= 0 {
		cachesize = len(b.nodes)/5 + 1
	}
	cachesize = ldd_prime_gte(cachesize)
	b.bincache.cacheratio = cacheratio
	b.bincache.cacheinit(cachesize)
	b.projcache.cacheratio = cacheratio
	b.projcache.cacheinit(cachesize)
	b.relcache.cacheratio = cacheratio
	b.relcache.cacheinit(cachesize)
}

func (b *LDD) cachereset() {
	b.bincache.cachereset()
	b.projcache.cachereset()
	b.relcache.cachereset()
}

func (b *LDD) cacheresize() {
	b.bincache.cacheresize(len(b.nodes))
	b.projcache.cacheresize(len(b.nodes))
	b.relcache.cacheresize(len(b.nodes))
}

// *************************************************************************

// SetCacheratio sets the cache ratio for the operator caches.
//
// The ratio between the number of nodes in the LDD table and the number of
// entries in the operator caches is called the cache ratio. So a cache ratio
// of say, four, allocates one cache entry for each four unique node entries.
// This value can be set to any positive value. When this is done the caches
// are resized instantly to fit the new ratio. The default is a fixed cache
// size determined at initialization time.
func (b *LDD) SetCacheratio(r int) error {
	if r <= 0 {
		b.seterror("Negative ratio (%d) in call to SetCacheratio", r)
		return b.error
	}
	if len(b.nodes) == 0 {
		return nil
	}
	b.bincache.cacheratio = r
	b.projcache.cacheratio = r
	b.relcache.cacheratio = r
	b.cacheresize()
	return nil
}

// ************************************************************

// Prints information about the cache performance. The information contains
// the number of accesses to the unique node table, the number of times a node
// was (not) found there and how many times a hash chain had to be traversed.
// Hit and miss count is also given for the operator caches.

func (c cacheStat) String() string {
	res := fmt.Sprintf("Unique Access:  %d\n", c.uniqueAccess)
	res += fmt.Sprintf("Unique Chain:   %d\n", c.uniqueChain)
	res += fmt.Sprintf("Unique Hit:     %d\n", c.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d\n", c.uniqueMiss)
	res += fmt.Sprintf("Operator Hits:  %d\n", c.opHit)
	res += fmt.Sprintf("Operator Miss:  %d", c.opMiss)
	return res
}
