// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"log"
	"sync/atomic"
)

// LDD implements a List Decision Diagram: a shared, canonical representation
// for sets of integer vectors of identical length. Nodes are kept in a
// dynamic array mixed with a hash table, in the style of the BuDDy library.
// The two terminal nodes are always kept at index 0 (the empty set) and index
// 1 (the set containing only the empty vector).
//
// A LDD is not safe for concurrent use; parallel workloads should give each
// goroutine its own instance.
type LDD struct {
	nodes           []lnode     // List of all the nodes. Terminals are always kept at index 0 and 1
	freenum         int         // Number of free nodes
	freepos         int         // First free node
	refstack        []int       // Internal node reference stack, protecting results in construction
	nodefinalizer   interface{} // Finalizer used to decrement the ref count of external references
	maxnodesize     int         // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int         // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int         // Minimum number of nodes (%) that should be left after GC before triggering a resize
	error                       // Error status to help chain operations
	lddStats                    // Information about the LDD
	gcstat                      // Information about garbage collections
	cacheStat                   // Information about the caches
	bincache                    // Cache for Union, Minus and Intersect results
	projcache                   // Cache for Project results
	relcache                    // Cache for relational product results
}

// Node is a reference to an element of a LDD. The same Node can appear inside
// many sets at once; the engine makes sure that two sets holding the same
// vectors always answer to the same Node.
type Node *int

// lddStats stores status information about a LDD.
type lddStats struct {
	produced int // Total number of new nodes ever produced
}

// ************************************************************

// New initializes a new LDD. The initial number of nodes is not critical
// since the table is resized whenever there are too few nodes left after a
// garbage collection, but it does have some impact on the efficiency of the
// operations. Typical values are 10 000 nodes for small examples and up to
// 1 000 000 nodes for large state spaces; see the Nodesize and Cachesize
// configuration options.
func New(options ...func(*configs)) (*LDD, error) {
	config := makeconfigs()
	for _, f := range options {
		f(config)
	}
	if config.maxnodesize > 0 && config.nodesize > config.maxnodesize {
		return nil, errMemory
	}
	b := &LDD{}
	nodesize := ldd_prime_gte(config.nodesize)
	b.minfreenodes = config.minfreenodes
	b.maxnodesize = config.maxnodesize
	b.maxnodeincrease = config.maxnodeincrease
	// initializing the list of nodes; free slots are threaded on the next
	// field, starting at freepos
	b.nodes = make([]lnode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = lnode{
			refcou: 0,
			value:  0,
			down:   -1,
			right:  0,
			hash:   0,
			next:   k + 1,
		}
	}
	b.nodes[nodesize-1].next = 0
	b.nodes[0].refcou = _MAXREFCOUNT
	b.nodes[1].refcou = _MAXREFCOUNT
	b.nodes[0].down = 0
	b.nodes[0].right = 0
	b.nodes[1].down = 1
	b.nodes[1].right = 1
	b.cacheinit(config.cachesize, config.cacheratio)
	b.freepos = 2
	b.freenum = nodesize - 2
	b.gcstat.history = make([]gcpoint, 0)
	b.error = nil
	b.nodefinalizer = func(n *int) {
		if _DEBUG {
			atomic.AddUint64(&(b.gcstat.calledfinalizers), 1)
			if _LOGLEVEL > 2 {
				log.Printf("dec refcou %d\n", *n)
			}
		}
		b.nodes[*n].refcou--
	}
	return b, nil
}

// ************************************************************

// Empty returns the constant node for the empty set.
func (b *LDD) Empty() Node {
	return lddzero
}

// Accept returns the constant node for the set that contains only the empty
// vector. It is the set obtained when all the positions of a vector have been
// consumed, hence its name.
func (b *LDD) Accept() Node {
	return lddone
}

// Equal tests the equality of the sets denoted by two nodes. Since the
// representation is canonical, this is a simple pointer comparison. A nil
// node, as returned after a failed operation, is never equal to a valid one.
func (b *LDD) Equal(n1, n2 Node) bool {
	if n1 == n2 {
		return true
	}
	if n1 == nil || n2 == nil {
		return false
	}
	return *n1 == *n2
}

// Value returns the value carried by node n. We set the LDD to its error
// state and return 0 if we try to access a terminal node.
func (b *LDD) Value(n Node) uint32 {
	if b.checkptr(n) != nil {
		b.seterror("Illegal access to node in call to Value")
		return 0
	}
	if *n < 2 {
		b.seterror("Try to access value of terminal node")
		return 0
	}
	return b.nodes[*n].value
}

// Down returns the set of suffixes that can follow the value of node n. We
// return nil if there is an error and set the error flag in the LDD.
func (b *LDD) Down(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("Illegal access to node in call to Down")
	}
	if *n < 2 {
		return b.seterror("Try to access down branch of terminal node")
	}
	return b.retnode(b.nodes[*n].down)
}

// Right returns the alternative values, greater than the value of node n,
// available at the same position. We return nil if there is an error and set
// the error flag in the LDD.
func (b *LDD) Right(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("Illegal access to node in call to Right")
	}
	if *n < 2 {
		return b.seterror("Try to access right branch of terminal node")
	}
	return b.retnode(b.nodes[*n].right)
}
