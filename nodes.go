// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

// lnode is the concrete type of vertices in the node table. A node denotes the
// set of vectors that either start with value (followed by a vector in down)
// or belong to right. Free slots are identified by down == -1, in which case
// next threads the free list.
type lnode struct {
	value  uint32 // Value carried at this position of the vectors
	refcou int32  // Count of external references; bit 21 doubles as the GC mark
	down   int    // Reference to the sets of possible suffixes, never 0 on a live node
	right  int    // Reference to the alternatives with a strictly greater value, 0 if last
	hash   int    // Index where to (possibly) find a node with this hash value
	next   int    // Next index to check in case of a collision, 0 if last
}

// ************************************************************

// inode returns a Node for known constant nodes, that do not need to increase
// their reference count.
func inode(n int) Node {
	x := n
	return &x
}

// lddone is the terminal node for the set that contains only the empty vector.
var lddone Node = inode(1)

// lddzero is the terminal node for the empty set.
var lddzero Node = inode(0)

// ************************************************************

func (b *LDD) ismarked(n int) bool {
	return (b.nodes[n].refcou & 0x200000) != 0
}

func (b *LDD) marknode(n int) {
	b.nodes[n].refcou |= 0x200000
}

func (b *LDD) unmarknode(n int) {
	b.nodes[n].refcou &= 0x1FFFFF
}

// ************************************************************

func (b *LDD) value(n int) uint32 {
	return b.nodes[n].value
}

func (b *LDD) down(n int) int {
	return b.nodes[n].down
}

func (b *LDD) right(n int) int {
	return b.nodes[n].right
}
