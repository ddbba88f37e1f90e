// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"log"
)

// gcstat stores status information about garbage collections. We use a stack
// (slice) of objects to record the sequence of GC during a computation.
type gcstat struct {
	setfinalizers    uint64    // Total number of external references to LDD nodes
	calledfinalizers uint64    // Number of external references that were freed
	history          []gcpoint // Snapshot of GC stats at each occurrence
}

type gcpoint struct {
	nodes            int // Total number of allocated nodes in the nodetable
	freenodes        int // Number of free nodes in the nodetable
	setfinalizers    int // Total number of external references to LDD nodes
	calledfinalizers int // Number of external references that were freed
}

// *************************************************************************

// AddRef increases the reference count on node n and returns n so that calls
// can be easily chained together. A call to AddRef can never raise an error,
// even if we access an unused node or a value outside the range of the LDD.
//
// Reference counting is done on externaly referenced nodes only and the count
// for a specific node can and must be increased using this function to avoid
// loosing the node during garbage collection. The count saturates at its
// maximal value, in which case the node is protected forever.
func (b *LDD) AddRef(n Node) Node {
	if *n < 2 {
		return n
	}
	if *n >= len(b.nodes) {
		return n
	}
	if b.nodes[*n].down == -1 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on a node and returns n so that calls
// can be easily chained together. A call to DelRef can never raise an error,
// even if we access an unused node or a value outside the range of the LDD.
//
// Like with AddRef, reference counting is done on externaly referenced nodes
// only and the count for a specific node can and must be decreased using this
// function to make it possible to reclaim the node during garbage collection.
func (b *LDD) DelRef(n Node) Node {
	if *n < 2 {
		return n
	}
	if *n >= len(b.nodes) {
		return n
	}
	if b.nodes[*n].down == -1 {
		return n
	}
	if b.nodes[*n].refcou <= 0 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou--
	}
	return n
}

// *************************************************************************

// gbc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free positions available. Allocated nodes that
// are not reclaimed do not move.
func (b *LDD) gbc() {
	if _LOGLEVEL > 0 {
		log.Println("starting GC")
		if _LOGLEVEL > 2 {
			b.logTable()
		}
	}

	if b.error != nil {
		return
	}

	// We could explictly ask the system to run its GC so that we can
	// decrement the ref counts of Nodes that had an external reference. This
	// is blocking. Frequent GC is time consuming, but with fewer GC we can
	// experience more resizing events.
	//
	// runtime.GC()

	// we append the current stats to the GC history
	if _DEBUG {
		b.gcstat.history = append(b.gcstat.history, gcpoint{
			nodes:            len(b.nodes),
			freenodes:        b.freenum,
			setfinalizers:    int(b.gcstat.setfinalizers),
			calledfinalizers: int(b.gcstat.calledfinalizers),
		})
		b.gcstat.setfinalizers = 0
		b.gcstat.calledfinalizers = 0
	} else {
		b.gcstat.history = append(b.gcstat.history, gcpoint{
			nodes:     len(b.nodes),
			freenodes: b.freenum,
		})
	}
	// we mark the nodes in the refstack to avoid collecting results that are
	// still being built
	for _, r := range b.refstack {
		b.mark(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such as the terminals)
	for k := range b.nodes {
		if (b.nodes[k].refcou & 0x1FFFFF) > 0 {
			b.mark(k)
		}
		b.nodes[k].hash = 0
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to update the hash chains and void
	// the unmarked nodes. After finishing this pass, b.freepos points to the
	// first free position in b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].down != -1) {
			b.unmarknode(n)
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].down = -1
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	// we also invalidate the caches
	b.cachereset()
	if _LOGLEVEL > 0 {
		log.Printf("end GC; freenum: %d\n", b.freenum)
		if _LOGLEVEL > 2 {
			b.logTable()
		}
	}
}

// *************************************************************************
// MARK / UNMARK

// mark sets the GC mark on all the live nodes reachable from n. We keep an
// explicit stack of positions to visit: right chains can be as long as the
// value domain, so we cannot rely on the call stack like with binary
// diagrams.
func (b *LDD) mark(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].down == -1) {
		return
	}
	stack := []int{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m < 2 || b.ismarked(m) || (b.nodes[m].down == -1) {
			continue
		}
		b.marknode(m)
		stack = append(stack, b.nodes[m].down, b.nodes[m].right)
	}
}

// markcount marks all the live nodes reachable from n and returns their
// number. It is used when printing the structure of a set.
func (b *LDD) markcount(n int) int {
	if n < 2 || b.ismarked(n) || (b.nodes[n].down == -1) {
		return 0
	}
	count := 0
	stack := []int{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m < 2 || b.ismarked(m) || (b.nodes[m].down == -1) {
			continue
		}
		b.marknode(m)
		count++
		stack = append(stack, b.nodes[m].down, b.nodes[m].right)
	}
	return count
}

func (b *LDD) unmarkall() {
	for k, v := range b.nodes {
		if k < 2 || !b.ismarked(k) || (v.down == -1) {
			continue
		}
		b.unmarknode(k)
	}
}

// *************************************************************************
// private functions to manipulate the refstack; used to prevent nodes that
// are currently being built (e.g. transient nodes built during a union) to be
// reclaimed during GC.

func (b *LDD) initref() {
	b.refstack = b.refstack[:0]
}

func (b *LDD) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}

func (b *LDD) popref(a int) {
	b.refstack = b.refstack[:len(b.refstack)-a]
}
