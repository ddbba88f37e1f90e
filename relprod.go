// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

// RelProd returns the image of set through the transition relation rel, that
// is the set of vectors that can be reached in one step from a vector of
// set. The relation holds interleaved vectors <r0, w0, ..., r(L-1), w(L-1)>,
// where a position read with value ri is overwritten with wi. The operands
// must agree on the length L of the state vectors; we return nil and set the
// error flag in the LDD otherwise.
func (b *LDD) RelProd(set, rel Node) Node {
	if b.checkptr(set) != nil {
		return b.seterror("Wrong operand in call to RelProd (set)")
	}
	if b.checkptr(rel) != nil {
		return b.seterror("Wrong operand in call to RelProd (relation)")
	}
	b.initref()
	b.pushref(*set)
	b.pushref(*rel)
	res := b.relprod(*set, *rel)
	b.popref(2)
	return b.retnode(res)
}

// relprod handles the read levels of the relation. The contributions of the
// different values read at this level are merged with a union, since two
// reads can lead to the same successors after the write.
func (b *LDD) relprod(set, rel int) int {
	if set == 0 || rel == 0 {
		return 0
	}
	if set == 1 && rel == 1 {
		return 1
	}
	if set == 1 || rel == 1 {
		b.seterror("mixed vector lengths in call to relprod")
		return -1
	}
	if res := b.matchrel(set, rel, cacheid_RELPROD); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	res := b.pushref(0)
	p, q := set, rel
	for p != 0 && q != 0 {
		switch {
		case b.nodes[p].value < b.nodes[q].value:
			p = b.nodes[p].right
		case b.nodes[q].value < b.nodes[p].value:
			q = b.nodes[q].right
		default:
			d := b.relnext(b.nodes[p].down, b.nodes[q].down)
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
			p, q = b.nodes[p].right, b.nodes[q].right
		}
	}
	b.popref(1)
	return b.setrel(set, rel, cacheid_RELPROD, res)
}

// relnext handles the write levels of the relation. The set does not advance
// here: its current level was consumed by the read, and every value found in
// the relation becomes a successor value.
func (b *LDD) relnext(set, rel int) int {
	if set == 0 || rel == 0 {
		return 0
	}
	if rel == 1 {
		b.seterror("transition relation with an odd vector length in call to relprod")
		return -1
	}
	if res := b.matchrel(set, rel, cacheid_RELNEXT); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	vals := []uint32{}
	for q := rel; q != 0; q = b.nodes[q].right {
		d := b.relprod(set, b.nodes[q].down)
		if d < 0 {
			b.popref(len(b.refstack) - sp)
			return -1
		}
		vals = append(vals, b.nodes[q].value)
		b.pushref(d)
	}
	res := b.foldchain(sp, vals)
	b.popref(len(vals))
	return b.setrel(set, rel, cacheid_RELNEXT, res)
}

// ************************************************************

// MakeMeta returns the vector describing how a transition relation touches
// the positions of the state vectors, for use with RelProdMeta. Position k
// of the result steers position k of the sets: value 0 leaves the position
// untouched and the relation does not mention it; 1 reads the position, and
// the write that replaces the value follows as a 2; 3 reads the position
// without changing it; 4 overwrites the position regardless of its value; 5
// consumes a position of the relation alone, typically an action label.
// Positions past the end of the meta vector are untouched.
func (b *LDD) MakeMeta(meta []int) Node {
	if b.error != nil {
		return nil
	}
	for k, m := range meta {
		if m < 0 || m > 5 {
			return b.seterror("invalid value (%d) in call to MakeMeta", m)
		}
		if m == 1 && (k == len(meta)-1 || meta[k+1] != 2) {
			return b.seterror("a read (1) must pair with a write (2) in call to MakeMeta")
		}
		if m == 2 && (k == 0 || meta[k-1] != 1) {
			return b.seterror("a write (2) must follow a read (1) in call to MakeMeta")
		}
	}
	b.initref()
	res := 1
	for k := len(meta) - 1; k >= 0; k-- {
		b.pushref(res)
		res = b.makenode(uint32(meta[k]), res, 0)
		b.popref(1)
		if res < 0 {
			return nil
		}
	}
	return b.retnode(res)
}

// RelProdMeta returns the image of set through the transition relation rel,
// where the meta vector (see MakeMeta) tells how the levels of rel line up
// with the levels of set. RelProd is the special case where meta alternates
// reads and writes over the whole vector. We return nil and set the error
// flag in the LDD when the three operands disagree on the vector lengths.
func (b *LDD) RelProdMeta(set, rel, meta Node) Node {
	if b.checkptr(set) != nil {
		return b.seterror("Wrong operand in call to RelProdMeta (set)")
	}
	if b.checkptr(rel) != nil {
		return b.seterror("Wrong operand in call to RelProdMeta (relation)")
	}
	if b.checkptr(meta) != nil {
		return b.seterror("Wrong operand in call to RelProdMeta (meta)")
	}
	b.initref()
	b.pushref(*set)
	b.pushref(*rel)
	b.pushref(*meta)
	res := b.relprodmeta(*set, *rel, *meta)
	b.popref(3)
	return b.retnode(res)
}

func (b *LDD) relprodmeta(set, rel, meta int) int {
	if set == 0 || rel == 0 {
		return 0
	}
	if meta == 1 {
		// the relation leaves the rest of the vectors untouched
		return set
	}
	if meta == 0 {
		b.seterror("invalid meta vector in call to RelProdMeta")
		return -1
	}
	mv := b.nodes[meta].value
	md := b.nodes[meta].down
	if set == 1 && mv != 2 && mv != 5 {
		b.seterror("mixed vector lengths in call to RelProdMeta (set)")
		return -1
	}
	if rel == 1 && mv != 0 {
		b.seterror("mixed vector lengths in call to RelProdMeta (relation)")
		return -1
	}
	if res := b.matchrel(set, rel, (meta<<2)|cacheid_RELMETA); res >= 0 {
		return res
	}
	sp := len(b.refstack)
	var res int
	switch mv {
	case 0:
		// untouched level, the relation does not advance
		vals := []uint32{}
		for p := set; p != 0; p = b.nodes[p].right {
			d := b.relprodmeta(b.nodes[p].down, rel, md)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[p].value)
			b.pushref(d)
		}
		res = b.foldchain(sp, vals)
		b.popref(len(vals))
	case 1:
		// read level; contributions of the matched values are merged since
		// the write that follows can map them to the same successors
		res = b.pushref(0)
		p, q := set, rel
		for p != 0 && q != 0 {
			switch {
			case b.nodes[p].value < b.nodes[q].value:
				p = b.nodes[p].right
			case b.nodes[q].value < b.nodes[p].value:
				q = b.nodes[q].right
			default:
				d := b.relprodmeta(b.nodes[p].down, b.nodes[q].down, md)
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
				p, q = b.nodes[p].right, b.nodes[q].right
			}
		}
		b.popref(1)
	case 2:
		// write level; the set does not advance and the values of the
		// relation become the successor values
		vals := []uint32{}
		for q := rel; q != 0; q = b.nodes[q].right {
			d := b.relprodmeta(set, b.nodes[q].down, md)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[q].value)
			b.pushref(d)
		}
		res = b.foldchain(sp, vals)
		b.popref(len(vals))
	case 3:
		// only-read level; matched values survive in the successors
		vals := []uint32{}
		p, q := set, rel
		for p != 0 && q != 0 {
			switch {
			case b.nodes[p].value < b.nodes[q].value:
				p = b.nodes[p].right
			case b.nodes[q].value < b.nodes[p].value:
				q = b.nodes[q].right
			default:
				d := b.relprodmeta(b.nodes[p].down, b.nodes[q].down, md)
				if d < 0 {
					b.popref(len(b.refstack) - sp)
					return -1
				}
				vals = append(vals, b.nodes[p].value)
				b.pushref(d)
				p, q = b.nodes[p].right, b.nodes[q].right
			}
		}
		res = b.foldchain(sp, vals)
		b.popref(len(vals))
	case 4:
		// only-write level; the current value of the set is irrelevant, so
		// we quantify it away before emitting the written values
		q := b.pushref(0)
		for p := set; p != 0; p = b.nodes[p].right {
			q = b.union(q, b.nodes[p].down)
			if q < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			b.refstack[sp] = q
		}
		vals := []uint32{}
		for r := rel; r != 0; r = b.nodes[r].right {
			d := b.relprodmeta(q, b.nodes[r].down, md)
			if d < 0 {
				b.popref(len(b.refstack) - sp)
				return -1
			}
			vals = append(vals, b.nodes[r].value)
			b.pushref(d)
		}
		res = b.foldchain(sp+1, vals)
		b.popref(len(vals) + 1)
	case 5:
		// the level only exists in the relation, typically an action label,
		// and is quantified away
		res = b.pushref(0)
		for q := rel; q != 0; q = b.nodes[q].right {
			d := b.relprodmeta(set, b.nodes[q].down, md)
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
	default:
		b.seterror("invalid value (%d) in the meta vector of RelProdMeta", mv)
		return -1
	}
	return b.setrel(set, rel, (meta<<2)|cacheid_RELMETA, res)
}
