// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"math/big"
)

// Union returns the set of vectors found in at least one of the operands. We
// return nil and set the error flag in the LDD if there is an error, for
// instance when the operands hold vectors of different lengths. Without
// arguments the result is the empty set.
func (b *LDD) Union(n ...Node) Node {
	for _, x := range n {
		if b.checkptr(x) != nil {
			return b.seterror("Wrong operand in call to Union")
		}
	}
	if len(n) == 0 {
		return lddzero
	}
	if len(n) == 1 {
		return n[0]
	}
	b.initref()
	for _, x := range n {
		b.pushref(*x)
	}
	sp := len(b.refstack)
	res := b.pushref(*n[0])
	for _, x := range n[1:] {
		res = b.union(res, *x)
		if res < 0 {
			break
		}
		b.refstack[sp] = res
	}
	b.popref(len(n) + 1)
	return b.retnode(res)
}

// Minus returns the set of vectors of the left operand that are not in the
// right one. We return nil and set the error flag in the LDD if there is an
// error.
func (b *LDD) Minus(left, right Node) Node {
	if b.checkptr(left) != nil {
		return b.seterror("Wrong operand in call to Minus (left)")
	}
	if b.checkptr(right) != nil {
		return b.seterror("Wrong operand in call to Minus (right)")
	}
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := b.minus(*left, *right)
	b.popref(2)
	return b.retnode(res)
}

// Intersect returns the set of vectors found in all the operands. We return
// nil and set the error flag in the LDD if there is an error. Intersect
// requires at least one operand since the universe of all vectors is not
// representable.
func (b *LDD) Intersect(n ...Node) Node {
	for _, x := range n {
		if b.checkptr(x) != nil {
			return b.seterror("Wrong operand in call to Intersect")
		}
	}
	if len(n) == 0 {
		return b.seterror("Intersect needs at least one operand")
	}
	if len(n) == 1 {
		return n[0]
	}
	b.initref()
	for _, x := range n {
		b.pushref(*x)
	}
	sp := len(b.refstack)
	res := b.pushref(*n[0])
	for _, x := range n[1:] {
		res = b.intersect(res, *x)
		if res < 0 {
			break
		}
		b.refstack[sp] = res
	}
	b.popref(len(n) + 1)
	return b.retnode(res)
}

// ************************************************************

// foldchain builds the canonical sibling chain for the pairs formed by
// vals[k] and the down branches parked at b.refstack[sp+k], folding from the
// last pair to the first one. Each partial chain takes the place of its down
// branch on the refstack, so the construction stays protected from the
// collector.
func (b *LDD) foldchain(sp int, vals []uint32) int {
	res := 0
	for k := len(vals) - 1; k >= 0; k-- {
		res = b.makenode(vals[k], b.refstack[sp+k], res)
		if res < 0 {
			return -1
		}
		b.refstack[sp+k] = res
	}
	return res
}

// union merges the sibling chains of its operands with a loop and recurses
// only on the down branches, so that the depth of the recursion stays
// proportional to the length of the vectors.
func (b *LDD) union(left, right int) int {
	if left == right {
		return left
	}
	if left == 0 {
		return right
	}
	if right == 0 {
		return left
	}
	if left == 1 || right == 1 {
		b.seterror("mixed vector lengths in call to union")
		return -1
	}
	// union is commutative, so we normalize the order of the operands before
	// going through the cache
	if right < left {
		left, right = right, left
	}
	if res := b.matchbin(opUnion, left, right); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	vals := []uint32{}
	p, q := left, right
	for p != 0 || q != 0 {
		switch {
		case q == 0 || (p != 0 && b.nodes[p].value < b.nodes[q].value):
			vals = append(vals, b.nodes[p].value)
			b.pushref(b.nodes[p].down)
			p = b.nodes[p].right
		case p == 0 || b.nodes[q].value < b.nodes[p].value:
			vals = append(vals, b.nodes[q].value)
			b.pushref(b.nodes[q].down)
			q = b.nodes[q].right
		default:
			d := b.union(b.nodes[p].down, b.nodes[q].down)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[p].value)
			b.pushref(d)
			p, q = b.nodes[p].right, b.nodes[q].right
		}
	}
	res := b.foldchain(sp, vals)
	b.popref(len(vals))
	return b.setbin(opUnion, left, right, res)
}

func (b *LDD) minus(left, right int) int {
	if left == right {
		return 0
	}
	if left == 0 {
		return 0
	}
	if right == 0 {
		return left
	}
	if left == 1 || right == 1 {
		b.seterror("mixed vector lengths in call to minus")
		return -1
	}
	if res := b.matchbin(opMinus, left, right); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	vals := []uint32{}
	p, q := left, right
	for p != 0 {
		switch {
		case q == 0 || b.nodes[p].value < b.nodes[q].value:
			vals = append(vals, b.nodes[p].value)
			b.pushref(b.nodes[p].down)
			p = b.nodes[p].right
		case b.nodes[q].value < b.nodes[p].value:
			q = b.nodes[q].right
		default:
			d := b.minus(b.nodes[p].down, b.nodes[q].down)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			// makenode prunes the pair when the difference is empty
			vals = append(vals, b.nodes[p].value)
			b.pushref(d)
			p, q = b.nodes[p].right, b.nodes[q].right
		}
	}
	res := b.foldchain(sp, vals)
	b.popref(len(vals))
	return b.setbin(opMinus, left, right, res)
}

func (b *LDD) intersect(left, right int) int {
	if left == right {
		return left
	}
	if left == 0 || right == 0 {
		return 0
	}
	if left == 1 || right == 1 {
		b.seterror("mixed vector lengths in call to intersect")
		return -1
	}
	// intersection is commutative, like union
	if right < left {
		left, right = right, left
	}
	if res := b.matchbin(opIntersect, left, right); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	vals := []uint32{}
	p, q := left, right
	for p != 0 && q != 0 {
		switch {
		case b.nodes[p].value < b.nodes[q].value:
			p = b.nodes[p].right
		case b.nodes[q].value < b.nodes[p].value:
			q = b.nodes[q].right
		default:
			d := b.intersect(b.nodes[p].down, b.nodes[q].down)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[p].value)
			b.pushref(d)
			p, q = b.nodes[p].right, b.nodes[q].right
		}
	}
	res := b.foldchain(sp, vals)
	b.popref(len(vals))
	return b.setbin(opIntersect, left, right, res)
}

// ************************************************************

// Member reports whether vector belongs to the set denoted by n. A vector
// whose length differs from the length of the vectors in the set is never a
// member; in particular Member always answers false on the empty set. The
// test is iterative and never creates nodes.
func (b *LDD) Member(n Node, vector []uint32) bool {
	if b.checkptr(n) != nil {
		b.seterror("Illegal access to node in call to Member")
		return false
	}
	p := *n
	for _, v := range vector {
		if p < 2 {
			return false
		}
		for p != 0 && b.nodes[p].value < v {
			p = b.nodes[p].right
		}
		if p == 0 || b.nodes[p].value != v {
			return false
		}
		p = b.nodes[p].down
	}
	return p == 1
}

// ************************************************************

// Project returns the projection of the vectors of n over the positions
// listed in levels (zero-based, in strictly increasing order). All the other
// positions are existentially quantified: at a dropped position, the
// alternative suffixes of every value are merged with a union. Projecting
// over positions past the end of the vectors is an error. With an empty list
// of levels, the result is Accept when n is not empty.
func (b *LDD) Project(n Node, levels []int) Node {
	if b.checkptr(n) != nil {
		return b.seterror("Wrong operand in call to Project")
	}
	for k := range levels {
		if levels[k] < 0 || (k > 0 && levels[k] <= levels[k-1]) {
			return b.seterror("levels must be non negative and strictly increasing in call to Project")
		}
	}
	b.initref()
	b.pushref(*n)
	proj := b.pushref(b.projection(levels))
	if proj < 0 {
		b.popref(2)
		return b.seterror("cannot build projection vector in call to Project")
	}
	res := b.project(*n, proj)
	b.popref(2)
	return b.retnode(res)
}

// projection builds a vector of 0/1 flags steering project: position k
// carries 1 when k is kept. Flags stop at the last kept position; project
// quantifies everything beyond. The flags vector is itself stored in the
// diagram, which gives canonical cache keys for free.
func (b *LDD) projection(levels []int) int {
	if len(levels) == 0 {
		return 1
	}
	res := 1
	i := len(levels) - 1
	for k := levels[i]; k >= 0; k-- {
		flag := uint32(0)
		if i >= 0 && levels[i] == k {
			flag = 1
			i--
		}
		b.pushref(res)
		res = b.makenode(flag, res, 0)
		b.popref(1)
		if res < 0 {
			return -1
		}
	}
	return res
}

func (b *LDD) project(n, proj int) int {
	if n == 0 {
		return 0
	}
	if proj == 1 {
		// no position left to keep; the remaining suffixes collapse to the
		// empty vector
		return 1
	}
	if n == 1 {
		b.seterror("projection over positions past the end of the vectors")
		return -1
	}
	if res := b.matchproject(n, proj); res >= 0 {
		return res
	}
	pd := b.nodes[proj].down
	var res int
	if b.nodes[proj].value == 1 {
		// the position is kept
		sp := len(b.refstack)
		vals := []uint32{}
		for p := n; p != 0; p = b.nodes[p].right {
			d := b.project(b.nodes[p].down, pd)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[p].value)
			b.pushref(d)
		}
		res = b.foldchain(sp, vals)
		b.popref(len(vals))
	} else {
		// the position is quantified and the suffixes of all its values are
		// merged; the accumulator keeps its slot on the refstack
		sp := len(b.refstack)
		res = b.pushref(0)
		for p := n; p != 0; p = b.nodes[p].right {
			d := b.project(b.nodes[p].down, pd)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			b.pushref(d)
			res = b.union(res, d)
			if res < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			b.popref(1)
			b.refstack[sp] = res
		}
		b.popref(1)
	}
	return b.setproject(n, proj, res)
}

// ************************************************************

// Count computes the number of vectors in the set denoted by n. We return a
// result using arbitrary-precision arithmetic since state spaces easily
// outgrow 64 bits. The result is zero (and we set the error flag of b) if
// there is an error.
func (b *LDD) Count(n Node) *big.Int {
	if b.checkptr(n) != nil {
		b.seterror("Wrong operand in call to Count")
		return big.NewInt(0)
	}
	counts := make(map[int]*big.Int)
	return b.count(*n, counts)
}

func (b *LDD) count(n int, counts map[int]*big.Int) *big.Int {
	if n < 2 {
		// the empty set holds no vector and Accept exactly one
		return big.NewInt(int64(n))
	}
	if res, ok := counts[n]; ok {
		return res
	}
	// we walk the sibling chain first and then fold the counts from the last
	// position, so that right chains do not grow the call stack and every
	// shared suffix gets its own memoized value
	chain := []int{}
	for p := n; p > 1; p = b.nodes[p].right {
		if _, ok := counts[p]; ok {
			break
		}
		chain = append(chain, p)
	}
	for k := len(chain) - 1; k >= 0; k-- {
		m := chain[k]
		res := big.NewInt(0)
		res.Add(res, b.count(b.nodes[m].down, counts))
		res.Add(res, b.count(b.nodes[m].right, counts))
		counts[m] = res
	}
	return counts[n]
}
