// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

// Hash functions

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR64(uint64(c), _PAIR(a, b, len), uint64(len)))
}

// _PAIR is a mapping function that maps (bijectively) a pair of integer (a, b)
// into a unique integer. It is therefore a perfect hash: no collisions
func _PAIR(a, b, len int) uint64 {
	return (((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(len)
}

func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// ************************************************************

// The hash function for nodes is #(value, down, right)

func (b *LDD) ptrhash(n int) int {
	return _TRIPLE(int(b.nodes[n].value), b.nodes[n].down, b.nodes[n].right, len(b.nodes))
}

func (b *LDD) nodehash(value uint32, down, right int) int {
	return _TRIPLE(int(value), down, right, len(b.nodes))
}

// ************************************************************

// The hash function for the binary set operations is #(left, right, op).

func (b *LDD) matchbin(op operator, left, right int) int {
	entry := b.bincache.table[_TRIPLE(left, right, int(op), len(b.bincache.table))]
	if entry.a == left && entry.b == right && entry.c == int(op) {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *LDD) setbin(op operator, left, right, res int) int {
	if res < 0 {
		b.seterror("problem in call to %s", op)
		return -1
	}
	b.bincache.table[_TRIPLE(left, right, int(op), len(b.bincache.table))] = cacheData{
		a:   left,
		b:   right,
		c:   int(op),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for Project is #(set, proj).

func (b *LDD) matchproject(set, proj int) int {
	entry := b.projcache.table[int(_PAIR(set, proj, len(b.projcache.table)))]
	if entry.a == set && entry.b == proj {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *LDD) setproject(set, proj, res int) int {
	if res < 0 {
		b.seterror("problem in call to project")
		return -1
	}
	b.projcache.table[int(_PAIR(set, proj, len(b.projcache.table)))] = cacheData{
		a:   set,
		b:   proj,
		c:   0,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for relational products is #(set, rel, id), where id
// discriminates between the read and write phases of RelProd and, for
// RelProdMeta, also includes the meta node.

func (b *LDD) matchrel(set, rel, id int) int {
	entry := b.relcache.table[_TRIPLE(set, rel, id, len(b.relcache.table))]
	if entry.a == set && entry.b == rel && entry.c == id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *LDD) setrel(set, rel, id, res int) int {
	if res < 0 {
		b.seterror("problem in call to relational product")
		return -1
	}
	b.relcache.table[_TRIPLE(set, rel, id, len(b.relcache.table))] = cacheData{
		a:   set,
		b:   rel,
		c:   id,
		res: res,
	}
	return res
}
