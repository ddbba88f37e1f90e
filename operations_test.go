// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"
)

//********************************************************************************************

func TestSingletonMember(t *testing.T) {
	var memberTests = []struct {
		vec      []uint32
		probe    []uint32
		expected bool
	}{
		{[]uint32{1, 2, 3}, []uint32{1, 2, 3}, true},
		{[]uint32{1, 2, 3}, []uint32{1, 2}, false},
		{[]uint32{1, 2, 3}, []uint32{1, 2, 3, 0}, false},
		{[]uint32{1, 2, 3}, []uint32{1, 2, 4}, false},
		{[]uint32{}, []uint32{}, true},
		{[]uint32{0}, []uint32{0}, true},
		{[]uint32{0}, []uint32{1}, false},
	}
	b, _ := New()
	for _, tt := range memberTests {
		actual := b.Member(b.Singleton(tt.vec), tt.probe)
		if actual != tt.expected {
			t.Errorf("Member(%v, %v): expected %v, actual %v", tt.vec, tt.probe, tt.expected, actual)
		}
	}
	if b.Member(b.Empty(), []uint32{1}) {
		t.Errorf("Member on the empty set: expected false")
	}
	if !b.Equal(b.Singleton([]uint32{}), b.Accept()) {
		t.Errorf("the singleton of the empty vector should be Accept")
	}
}

func TestUnionBasic(t *testing.T) {
	b, _ := New()
	u := b.Union(b.MakeSet([][]uint32{{0, 1}, {2, 3}}), b.MakeSet([][]uint32{{0, 3}}))
	if c := b.Count(u); c.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("Count after union: expected 3, actual %s", c)
	}
	for _, vec := range [][]uint32{{0, 1}, {0, 3}, {2, 3}} {
		if !b.Member(u, vec) {
			t.Errorf("expected %v in the union", vec)
		}
	}
	if b.Member(u, []uint32{0, 2}) {
		t.Errorf("unexpected vector in the union")
	}
	m := b.Minus(u, b.Singleton([]uint32{0, 1}))
	if c := b.Count(m); c.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("Count after minus: expected 2, actual %s", c)
	}
	i := b.Intersect(u, b.MakeSet([][]uint32{{0, 3}, {7, 7}}))
	if !b.Equal(i, b.Singleton([]uint32{0, 3})) {
		t.Errorf("wrong intersection result")
	}
	if b.Errored() {
		t.Error(b.Error())
	}
}

func TestMixedLengths(t *testing.T) {
	b, _ := New()
	if res := b.Union(b.Singleton([]uint32{1, 2}), b.Singleton([]uint32{1, 2, 3})); res != nil || !b.Errored() {
		t.Errorf("expected an error on a union of vectors with different lengths")
	}
	b2, _ := New()
	if res := b2.Intersect(b2.Accept(), b2.Singleton([]uint32{4})); res != nil || !b2.Errored() {
		t.Errorf("expected an error on an intersection of vectors with different lengths")
	}
	b3, _ := New()
	if res := b3.MakeSet([][]uint32{{1}, {2, 2}}); res != nil || !b3.Errored() {
		t.Errorf("expected an error on a set of vectors with different lengths")
	}
}

//********************************************************************************************

// randset returns a set together with the map holding the same vectors, so
// that LDD operations can be checked against their model counterpart.
func randset(b *LDD, rng *rand.Rand, size int) (Node, map[[4]uint32]bool) {
	model := make(map[[4]uint32]bool, size)
	res := b.Empty()
	for k := 0; k < size; k++ {
		vec := [4]uint32{uint32(rng.Intn(6)), uint32(rng.Intn(6)), uint32(rng.Intn(6)), uint32(rng.Intn(6))}
		model[vec] = true
		res = b.Union(res, b.Singleton(vec[:]))
	}
	return res, model
}

func checkset(t *testing.T, b *LDD, n Node, model map[[4]uint32]bool, opname string) {
	t.Helper()
	if c := b.Count(n); c.Cmp(big.NewInt(int64(len(model)))) != 0 {
		t.Errorf("Count after %s: expected %d, actual %s", opname, len(model), c)
	}
	found := make(map[[4]uint32]bool, len(model))
	err := b.Allvec(n, func(vec []uint32) error {
		var v [4]uint32
		copy(v[:], vec)
		if !model[v] {
			return fmt.Errorf("unexpected vector %v after %s", vec, opname)
		}
		if found[v] {
			return fmt.Errorf("vector %v enumerated twice after %s", vec, opname)
		}
		found[v] = true
		return nil
	})
	if err != nil {
		t.Error(err)
	}
	if len(found) != len(model) {
		t.Errorf("enumeration after %s: expected %d vectors, actual %d", opname, len(model), len(found))
	}
}

func TestOperationsRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	// a small table, so that the test also stresses collection and resizing
	b, _ := New(Nodesize(400), Cachesize(128), Cacheratio(4))
	sa, ma := randset(b, rng, 300)
	sb, mb := randset(b, rng, 300)

	munion := make(map[[4]uint32]bool)
	for v := range ma {
		munion[v] = true
	}
	for v := range mb {
		munion[v] = true
	}
	checkset(t, b, b.Union(sa, sb), munion, "union")

	mminus := make(map[[4]uint32]bool)
	for v := range ma {
		if !mb[v] {
			mminus[v] = true
		}
	}
	checkset(t, b, b.Minus(sa, sb), mminus, "minus")

	minter := make(map[[4]uint32]bool)
	for v := range ma {
		if mb[v] {
			minter[v] = true
		}
	}
	checkset(t, b, b.Intersect(sa, sb), minter, "intersect")

	if b.Errored() {
		t.Error(b.Error())
	}
}

func TestSetAlgebra(t *testing.T) {
	rng := rand.New(rand.NewSource(0xa1b2))
	b, _ := New(Nodesize(500), Cachesize(128), Cacheratio(4))
	sa, _ := randset(b, rng, 200)
	sb, _ := randset(b, rng, 200)
	sc, _ := randset(b, rng, 200)

	if !b.Equal(b.Union(sa, sb), b.Union(sb, sa)) {
		t.Errorf("union is not commutative")
	}
	if !b.Equal(b.Union(b.Union(sa, sb), sc), b.Union(sa, b.Union(sb, sc))) {
		t.Errorf("union is not associative")
	}
	if !b.Equal(b.Union(sa, sa), sa) {
		t.Errorf("union is not idempotent")
	}
	if !b.Equal(b.Union(sa, b.Empty()), sa) {
		t.Errorf("the empty set is not neutral for union")
	}
	if !b.Equal(b.Intersect(sa, b.Union(sb, sc)), b.Union(b.Intersect(sa, sb), b.Intersect(sa, sc))) {
		t.Errorf("intersection does not distribute over union")
	}
	if !b.Equal(b.Union(b.Minus(sa, sb), b.Intersect(sa, sb)), sa) {
		t.Errorf("(a minus b) union (a inter b) is not a")
	}
	if !b.Equal(b.Intersect(b.Minus(sa, sb), sb), b.Empty()) {
		t.Errorf("(a minus b) inter b is not empty")
	}
	if !b.Equal(b.Minus(sa, b.Minus(sa, sb)), b.Intersect(sa, sb)) {
		t.Errorf("a minus (a minus b) is not (a inter b)")
	}
	// variadic forms against their binary foldings
	if !b.Equal(b.Union(sa, sb, sc), b.Union(sa, b.Union(sb, sc))) {
		t.Errorf("variadic union disagrees with the binary fold")
	}
	if !b.Equal(b.Intersect(sa, sb, sc), b.Intersect(sa, b.Intersect(sb, sc))) {
		t.Errorf("variadic intersection disagrees with the binary fold")
	}
	if b.Errored() {
		t.Error(b.Error())
	}
}

//********************************************************************************************

func TestProject(t *testing.T) {
	b, _ := New()
	s := b.MakeSet([][]uint32{{0, 1, 2}, {0, 1, 3}, {1, 1, 2}})

	p := b.Project(s, []int{0})
	if !b.Equal(p, b.MakeSet([][]uint32{{0}, {1}})) {
		t.Errorf("projection over the first position: expected {<0>, <1>}")
	}
	p = b.Project(s, []int{1})
	if !b.Equal(p, b.Singleton([]uint32{1})) {
		t.Errorf("projection over the second position: expected {<1>}")
	}
	p = b.Project(s, []int{0, 2})
	if !b.Equal(p, b.MakeSet([][]uint32{{0, 2}, {0, 3}, {1, 2}})) {
		t.Errorf("projection over positions 0 and 2: expected 3 vectors, actual %s", b.Count(p))
	}
	if !b.Equal(b.Project(s, []int{0, 1, 2}), s) {
		t.Errorf("projection over all positions should be the identity")
	}
	if !b.Equal(b.Project(s, []int{}), b.Accept()) {
		t.Errorf("projection over no position should be Accept")
	}
	if !b.Equal(b.Project(b.Empty(), []int{0}), b.Empty()) {
		t.Errorf("projection of the empty set should be empty")
	}
	if b.Errored() {
		t.Error(b.Error())
	}
}

func TestProjectErrors(t *testing.T) {
	b, _ := New()
	s := b.MakeSet([][]uint32{{0, 1}, {2, 3}})
	if res := b.Project(s, []int{1, 0}); res != nil || !b.Errored() {
		t.Errorf("expected an error with unsorted levels")
	}
	b2, _ := New()
	s2 := b2.MakeSet([][]uint32{{0, 1}, {2, 3}})
	if res := b2.Project(s2, []int{3}); res != nil || !b2.Errored() {
		t.Errorf("expected an error when projecting past the end of the vectors")
	}
}

func TestProjectRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0xcafe))
	b, _ := New(Nodesize(400), Cachesize(128), Cacheratio(4))
	s, m := randset(b, rng, 400)
	levels := []int{1, 3}
	p := b.Project(s, levels)

	model := make(map[[2]uint32]bool)
	for v := range m {
		model[[2]uint32{v[1], v[3]}] = true
	}
	if c := b.Count(p); c.Cmp(big.NewInt(int64(len(model)))) != 0 {
		t.Errorf("Count after projection: expected %d, actual %s", len(model), c)
	}
	err := b.Allvec(p, func(vec []uint32) error {
		if !model[[2]uint32{vec[0], vec[1]}] {
			return fmt.Errorf("unexpected vector %v in the projection", vec)
		}
		return nil
	})
	if err != nil {
		t.Error(err)
	}
}

//********************************************************************************************

func TestCount(t *testing.T) {
	var countTests = []struct {
		vecs     [][]uint32
		expected int64
	}{
		{[][]uint32{}, 0},
		{[][]uint32{{}}, 1},
		{[][]uint32{{4}}, 1},
		{[][]uint32{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, 4},
		{[][]uint32{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}}, 4},
	}
	b, _ := New()
	for _, tt := range countTests {
		actual := b.Count(b.MakeSet(tt.vecs))
		if actual.Cmp(big.NewInt(tt.expected)) != 0 {
			t.Errorf("Count(%v): expected %d, actual %s", tt.vecs, tt.expected, actual)
		}
	}
}

//********************************************************************************************

// TestInvariants checks the structural properties of the node table after a
// batch of random operations: canonicity (no two live nodes with the same
// triple), strictly increasing right chains ending on the empty set, and no
// down branch to the empty set.
func TestInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b, _ := New(Nodesize(300), Cachesize(64), Cacheratio(4))
	sa, _ := randset(b, rng, 250)
	sb, _ := randset(b, rng, 250)
	keep := []Node{sa, sb, b.Union(sa, sb), b.Minus(sa, sb), b.Intersect(sa, sb), b.Project(sa, []int{0, 2})}
	_ = keep

	seen := make(map[lnode]int)
	err := b.Allnodes(func(id int, value uint32, down int, right int) error {
		key := lnode{value: value, down: down, right: right}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("nodes %d and %d hold the same triple (%d, %d, %d)", id, other, value, down, right)
		}
		seen[key] = id
		if down == 0 {
			return fmt.Errorf("node %d has a down branch to the empty set", id)
		}
		if right == 1 {
			return fmt.Errorf("node %d has a right chain ending on Accept", id)
		}
		if right > 1 && b.nodes[right].value <= value {
			return fmt.Errorf("node %d breaks value ordering with its right sibling", id)
		}
		return nil
	})
	if err != nil {
		t.Error(err)
	}
	if b.Errored() {
		t.Error(b.Error())
	}
}
