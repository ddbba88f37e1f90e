// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

// Singleton returns the set holding only the given vector. The result for an
// empty vector is Accept, the set whose only element is the empty vector. We
// return nil and set the error flag in the LDD if there is an error.
func (b *LDD) Singleton(vector []uint32) Node {
	if b.error != nil {
		return nil
	}
	b.initref()
	return b.retnode(b.singleton(vector))
}

func (b *LDD) singleton(vector []uint32) int {
	res := 1
	for k := len(vector) - 1; k >= 0; k-- {
		b.pushref(res)
		res = b.makenode(vector[k], res, 0)
		b.popref(1)
		if res < 0 {
			return -1
		}
	}
	return res
}

// MakeSet returns the set holding the given vectors, which must all have the
// same length. The result is Empty when vectors is empty. The length check is
// done upfront: a union only detects a length mismatch when two suffixes of
// different lengths meet under the same prefix.
func (b *LDD) MakeSet(vectors [][]uint32) Node {
	if b.error != nil {
		return nil
	}
	for _, vec := range vectors {
		if len(vec) != len(vectors[0]) {
			return b.seterror("vectors with different lengths (%d and %d) in call to MakeSet", len(vectors[0]), len(vec))
		}
	}
	b.initref()
	sp := len(b.refstack)
	res := b.pushref(0)
	for _, vec := range vectors {
		s := b.singleton(vec)
		if s < 0 {
			b.popref(1)
			return nil
		}
		b.pushref(s)
		res = b.union(res, s)
		if res < 0 {
			b.popref(2)
			return nil
		}
		b.popref(1)
		b.refstack[sp] = res
	}
	b.popref(1)
	return b.retnode(res)
}

// MakeNode returns the node with the given value and down and right links,
// adding it to the table when necessary. This is a low level constructor,
// mostly useful when deserializing diagrams node by node; it enforces the
// same invariants as every other operation, so right cannot be Accept and
// must carry a strictly larger value. Like with union, a node with an Empty
// down link is pruned and the result is simply right.
func (b *LDD) MakeNode(value uint32, down, right Node) Node {
	if b.checkptr(down) != nil {
		return b.seterror("Wrong down link in call to MakeNode")
	}
	if b.checkptr(right) != nil {
		return b.seterror("Wrong right link in call to MakeNode")
	}
	return b.retnode(b.makenode(value, *down, *right))
}

// Allvec iterates over the vectors of the set denoted by n and calls f on
// each of them. The slice passed to f is reused between calls, so f must
// copy it if it needs to keep its value. We stop at the first error reported
// by f and return it.
func (b *LDD) Allvec(n Node, f func([]uint32) error) error {
	if b.checkptr(n) != nil {
		b.seterror("Wrong operand in call to Allvec")
		return b.error
	}
	return b.allvec(*n, []uint32{}, f)
}

func (b *LDD) allvec(n int, prefix []uint32, f func([]uint32) error) error {
	if n == 0 {
		return nil
	}
	if n == 1 {
		return f(prefix)
	}
	for p := n; p != 0; p = b.nodes[p].right {
		if err := b.allvec(b.nodes[p].down, append(prefix, b.nodes[p].value), f); err != nil {
			return err
		}
	}
	return nil
}

// Allnodes iterates over the internal nodes of the diagram and calls f on
// each of them, with its index in the table, its value and the indexes of
// its down and right links (the terminals keep indexes 0 and 1). Without
// arguments we iterate over all the active nodes of the table; otherwise
// only over the nodes reachable from one of the given roots. We stop at the
// first error reported by f and return it.
func (b *LDD) Allnodes(f func(id int, value uint32, down int, right int) error, n ...Node) error {
	if b.error != nil {
		return b.error
	}
	if len(n) == 0 {
		for k := 2; k < len(b.nodes); k++ {
			if b.nodes[k].down == -1 {
				continue
			}
			if err := f(k, b.nodes[k].value, b.nodes[k].down, b.nodes[k].right); err != nil {
				return err
			}
		}
		return nil
	}
	for _, x := range n {
		if b.checkptr(x) != nil {
			b.seterror("Wrong operand in call to Allnodes")
			return b.error
		}
	}
	for _, x := range n {
		b.mark(*x)
	}
	// we keep unmarking even after an error from f, the table must be left
	// clean
	var err error
	for k := 2; k < len(b.nodes); k++ {
		if !b.ismarked(k) {
			continue
		}
		b.unmarknode(k)
		if err != nil {
			continue
		}
		err = f(k, b.nodes[k].value, b.nodes[k].down, b.nodes[k].right)
	}
	return err
}

// Size returns the number of internal nodes reachable from the given roots.
// Nodes shared between several roots are counted only once. We return -1 and
// set the error flag in the LDD if there is an error.
func (b *LDD) Size(n ...Node) int {
	count := 0
	for _, x := range n {
		if b.checkptr(x) != nil {
			b.seterror("Wrong operand in call to Size")
			return -1
		}
		count += b.markcount(*x)
	}
	b.unmarkall()
	return count
}
