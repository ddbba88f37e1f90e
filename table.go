// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"log"
	"math"
	"runtime"
	"sync/atomic"
)

// retnode creates a Node for external use and sets a finalizer on it so that
// we can reclaim the ressource during GC.
func (b *LDD) retnode(n int) Node {
	if n < 0 || n > len(b.nodes) {
		if _DEBUG {
			log.Panicf("unexpected error; b.retnode(%d) not valid\n", n)
		}
		return nil
	}
	if n == 0 {
		return lddzero
	}
	if n == 1 {
		return lddone
	}
	x := n
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
		runtime.SetFinalizer(&x, b.nodefinalizer)
		if _DEBUG {
			atomic.AddUint64(&(b.setfinalizers), 1)
			if _LOGLEVEL > 2 {
				log.Printf("inc refcou %d\n", n)
			}
		}
	}
	return &x
}

// makenode is the only function that builds nodes. It returns the canonical
// index for the triple (value, down, right), adding a node to the table only
// when the triple is seen for the first time. Sets with no possible suffix
// are pruned: with down == 0 we return right directly, so no live node ever
// points down to the empty set.
func (b *LDD) makenode(value uint32, down, right int) int {
	if _DEBUG {
		b.uniqueAccess++
	}
	if down < 0 || right < 0 {
		return -1
	}
	if down == 0 {
		return right
	}
	// values along a right chain must be strictly increasing and the chain
	// must end on the empty set
	if right == 1 {
		b.seterror("broken value ordering (right chain ends on Accept) in call to makenode")
		return -1
	}
	if right != 0 && b.nodes[right].value <= value {
		b.seterror("broken value ordering (%d before %d) in call to makenode", value, b.nodes[right].value)
		return -1
	}
	// otherwise try to find an existing node using the hash and next fields
	hash := b.nodehash(value, down, right)
	res := b.nodes[hash].hash
	for res != 0 {
		if b.nodes[res].value == value && b.nodes[res].down == down && b.nodes[res].right == right {
			if _DEBUG {
				b.uniqueHit++
			}
			return res
		}
		res = b.nodes[res].next
		if _DEBUG {
			b.uniqueChain++
		}
	}
	if _DEBUG {
		b.uniqueMiss++
	}
	// If no existing node, we build one. If there is no available spot
	// (b.freepos == 0), we try garbage collection and, as a last resort,
	// resizing the node list.
	if b.freepos == 0 {
		b.gbc()
		if b.error != nil {
			return -1
		}
		// We also test if we are under the threshold for resizing.
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			if err := b.noderesize(); err != nil {
				b.seterror("%s in call to makenode", err)
				return -1
			}
		}
		if b.freepos == 0 {
			b.seterror("%s in call to makenode", errMemory)
			return -1
		}
		// collection and resizing may have moved the hash chains around
		hash = b.nodehash(value, down, right)
	}
	// We can now build the new node in the first available spot
	res = b.freepos
	b.freepos = b.nodes[res].next
	b.freenum--
	b.produced++
	b.nodes[res].value = value
	b.nodes[res].down = down
	b.nodes[res].right = right
	b.nodes[res].next = b.nodes[hash].hash
	b.nodes[hash].hash = res
	return res
}

func (b *LDD) noderesize() error {
	if _LOGLEVEL > 0 {
		log.Printf("start resize: %d\n", len(b.nodes))
	}
	oldsize := len(b.nodes)
	nodesize := len(b.nodes)
	if (oldsize >= b.maxnodesize) && (b.maxnodesize > 0) {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if b.maxnodeincrease > 0 && nodesize > (oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if (nodesize > b.maxnodesize) && (b.maxnodesize > 0) {
		nodesize = b.maxnodesize
	}
	nodesize = ldd_prime_lte(nodesize)
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := b.nodes
	b.nodes = make([]lnode, nodesize)
	copy(b.nodes, tmp)

	for n := 0; n < oldsize; n++ {
		b.nodes[n].hash = 0
	}
	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].refcou = 0
		b.nodes[n].hash = 0
		b.nodes[n].value = 0
		b.nodes[n].down = -1
		b.nodes[n].next = n + 1
	}

	// We recompute the hashes and rebuild the free list since nodesize is
	// modified.
	b.freepos = 0
	b.freenum = 0
	for n := nodesize - 1; n > 1; n-- {
		if b.nodes[n].down != -1 {
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}

	b.cacheresize()

	if _LOGLEVEL > 0 {
		log.Printf("end resize: %d\n", len(b.nodes))
	}
	return nil
}
