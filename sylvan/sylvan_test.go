// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package sylvan

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/ludd"
)

func TestPackUnpack(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		down  uint64
		right uint64
	}{
		{"terminals", 0, 0, 0},
		{"small", 3, 1, 0},
		{"low16", 0xffff, 2, 5},
		{"high16", 0xffff0000, 7, 2},
		{"maxvalue", 0xffffffff, 12, 10},
		{"maxindex", 42, maxIndex, maxIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := pack(tt.value, tt.down, tt.right)
			value, down, right := unpack(a, b)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.down, down)
			assert.Equal(t, tt.right, right)
			// the mark bit must be ignored
			value, down, right = unpack(a|1, b)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.down, down)
			assert.Equal(t, tt.right, right)
		})
	}
}

// rawset returns the hand written serialization of the set {<1 2>, <3 2>}:
// node 2 is the set {<2>}, node 3 the pair (3, node 2, Empty) and node 4,
// the root, the pair (1, node 2, node 3).
func rawset() []byte {
	var buf bytes.Buffer
	w64 := func(v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}
	w64(3)
	w64(0x0002000000000000) // value 2
	w64(1 << 17)            // down 1, right 0
	w64(0x0003000000000001) // value 3, mark bit set
	w64(2 << 17)            // down 2, right 0
	w64(0x0001000000000006) // value 1, right 3
	w64(2 << 17)            // down 2, right 0
	w64(4)                  // root
	return buf.Bytes()
}

func TestReadSet(t *testing.T) {
	b, err := ludd.New()
	require.NoError(t, err)
	rd := NewReader(b, bytes.NewReader(rawset()))
	n, err := rd.ReadSet()
	require.NoError(t, err)
	require.False(t, b.Errored(), b.Error())
	assert.Equal(t, 0, b.Count(n).Cmp(big.NewInt(2)))
	assert.True(t, b.Member(n, []uint32{1, 2}))
	assert.True(t, b.Member(n, []uint32{3, 2}))
	assert.False(t, b.Member(n, []uint32{2, 2}))
}

// vecset enumerates a set of vectors of length at most 4 into a map.
func vecset(t *testing.T, b *ludd.LDD, n ludd.Node) map[[4]uint32]bool {
	t.Helper()
	res := make(map[[4]uint32]bool)
	err := b.Allvec(n, func(vec []uint32) error {
		var v [4]uint32
		copy(v[:], vec)
		res[v] = true
		return nil
	})
	require.NoError(t, err)
	return res
}

func TestSetRoundTrip(t *testing.T) {
	b, err := ludd.New()
	require.NoError(t, err)
	n := b.MakeSet([][]uint32{
		{1, 0, 3047, 2},
		{1, 0, 3047, 9},
		{70000, 0, 0, 0},
		{1, 1, 1, 1},
		{0xffffffff, 0, 1, 2},
	})
	require.NotNil(t, n)

	var buf bytes.Buffer
	wr := NewWriter(b, &buf)
	require.NoError(t, wr.WriteSet(n))

	// writing the same set again only appends a header and a root, every
	// node is already serialized
	mark := buf.Len()
	require.NoError(t, wr.WriteSet(n))
	assert.Equal(t, 16, buf.Len()-mark)

	b2, err := ludd.New()
	require.NoError(t, err)
	rd := NewReader(b2, bytes.NewReader(buf.Bytes()))
	m1, err := rd.ReadSet()
	require.NoError(t, err)
	m2, err := rd.ReadSet()
	require.NoError(t, err)
	assert.True(t, b2.Equal(m1, m2))
	assert.Equal(t, vecset(t, b, n), vecset(t, b2, m1))
}

func TestSharedNodes(t *testing.T) {
	b, err := ludd.New()
	require.NoError(t, err)
	n1 := b.MakeSet([][]uint32{{1, 5}, {2, 5}})
	n2 := b.MakeSet([][]uint32{{1, 5}, {2, 5}, {3, 5}})

	var buf bytes.Buffer
	wr := NewWriter(b, &buf)
	require.NoError(t, wr.WriteSet(n1))
	require.NoError(t, wr.WriteSet(n2))

	b2, err := ludd.New()
	require.NoError(t, err)
	rd := NewReader(b2, bytes.NewReader(buf.Bytes()))
	m1, err := rd.ReadSet()
	require.NoError(t, err)
	m2, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Equal(t, vecset(t, b, n1), vecset(t, b2, m1))
	assert.Equal(t, vecset(t, b, n2), vecset(t, b2, m2))
	assert.True(t, b2.Equal(m1, b2.Intersect(m1, m2)))
}

func TestEmptyAndAccept(t *testing.T) {
	b, err := ludd.New()
	require.NoError(t, err)
	var buf bytes.Buffer
	wr := NewWriter(b, &buf)
	require.NoError(t, wr.WriteSet(b.Empty()))
	require.NoError(t, wr.WriteSet(b.Accept()))

	b2, err := ludd.New()
	require.NoError(t, err)
	rd := NewReader(b2, bytes.NewReader(buf.Bytes()))
	m1, err := rd.ReadSet()
	require.NoError(t, err)
	assert.True(t, b2.Equal(b2.Empty(), m1))
	m2, err := rd.ReadSet()
	require.NoError(t, err)
	assert.True(t, b2.Equal(b2.Accept(), m2))
}

// flipmodel builds a model with two independent 0/1 positions, each flipped
// by its own transition group. All four states are reachable from <0 0>.
func flipmodel(t *testing.T, b *ludd.LDD) *Model {
	t.Helper()
	flip := b.MakeSet([][]uint32{{0, 1}, {1, 0}})
	m := &Model{
		Length:  2,
		Initial: b.Singleton([]uint32{0, 0}),
		Groups: []Group{
			{Read: []uint32{0}, Write: []uint32{0}, Relation: flip},
			{Read: []uint32{1}, Write: []uint32{1}, Relation: flip},
		},
	}
	for i := range m.Groups {
		m.Groups[i].Meta = b.MakeMeta(MetaVector(m.Groups[i].Read, m.Groups[i].Write))
	}
	require.False(t, b.Errored(), b.Error())
	return m
}

// explore computes the reachable states of a model with the usual fixed
// point.
func explore(b *ludd.LDD, m *Model) ludd.Node {
	reach := m.Initial
	for {
		next := reach
		for _, g := range m.Groups {
			next = b.Union(next, b.RelProdMeta(next, g.Relation, g.Meta))
		}
		if b.Equal(next, reach) {
			return reach
		}
		reach = next
	}
}

func TestModelRoundTrip(t *testing.T) {
	b, err := ludd.New()
	require.NoError(t, err)
	m := flipmodel(t, b)

	var buf bytes.Buffer
	wr := NewWriter(b, &buf)
	require.NoError(t, wr.WriteModel(m))

	b2, err := ludd.New()
	require.NoError(t, err)
	m2, err := NewReader(b2, bytes.NewReader(buf.Bytes())).ReadModel()
	require.NoError(t, err)

	assert.Equal(t, m.Length, m2.Length)
	require.Len(t, m2.Groups, len(m.Groups))
	for i := range m.Groups {
		assert.Equal(t, m.Groups[i].Read, m2.Groups[i].Read)
		assert.Equal(t, m.Groups[i].Write, m2.Groups[i].Write)
		assert.Equal(t, vecset(t, b, m.Groups[i].Relation), vecset(t, b2, m2.Groups[i].Relation))
	}
	assert.Equal(t, vecset(t, b, m.Initial), vecset(t, b2, m2.Initial))

	reach := explore(b2, m2)
	require.False(t, b2.Errored(), b2.Error())
	assert.Equal(t, 0, b2.Count(reach).Cmp(big.NewInt(4)))
}

func TestOpenCompressed(t *testing.T) {
	for _, ext := range []string{".ldd", ".ldd.gz", ".ldd.zst", ".ldd.lz4"} {
		t.Run(ext, func(t *testing.T) {
			b, err := ludd.New()
			require.NoError(t, err)
			m := flipmodel(t, b)

			path := filepath.Join(t.TempDir(), "flip"+ext)
			wr, err := Create(b, path)
			require.NoError(t, err)
			require.NoError(t, wr.WriteModel(m))
			require.NoError(t, wr.Close())

			b2, err := ludd.New()
			require.NoError(t, err)
			m2, err := LoadModel(b2, path)
			require.NoError(t, err)
			assert.Equal(t, m.Length, m2.Length)
			assert.Equal(t, vecset(t, b, m.Initial), vecset(t, b2, m2.Initial))
			reach := explore(b2, m2)
			assert.Equal(t, 0, b2.Count(reach).Cmp(big.NewInt(4)))
		})
	}
}

func TestMetaVector(t *testing.T) {
	tests := []struct {
		name  string
		read  []uint32
		write []uint32
		meta  []int
	}{
		{"empty", nil, nil, nil},
		{"readwrite", []uint32{0}, []uint32{0}, []int{1, 2}},
		{"readonly", []uint32{1}, nil, []int{0, 3}},
		{"writeonly", nil, []uint32{2}, []int{0, 0, 4}},
		{"mixed", []uint32{0, 2}, []uint32{2, 4}, []int{3, 0, 1, 2, 0, 4}},
		{"duplicates", []uint32{1, 1}, []uint32{1}, []int{0, 1, 2}},
		{"unsorted", []uint32{3, 0}, []uint32{0}, []int{1, 2, 0, 0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.meta, MetaVector(tt.read, tt.write))
		})
	}
}

func TestReadErrors(t *testing.T) {
	newReader := func(raw []byte) *Reader {
		b, _ := ludd.New()
		return NewReader(b, bytes.NewReader(raw))
	}
	w64 := func(buf *bytes.Buffer, v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}

	t.Run("truncated", func(t *testing.T) {
		raw := rawset()
		_, err := newReader(raw[:20]).ReadSet()
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("badref", func(t *testing.T) {
		var buf bytes.Buffer
		w64(&buf, 1)
		a, b := pack(4, 7, 0) // down 7 was never read
		w64(&buf, a)
		w64(&buf, b)
		w64(&buf, 2)
		_, err := newReader(buf.Bytes()).ReadSet()
		require.ErrorIs(t, err, ErrNodeRef)
	})

	t.Run("badroot", func(t *testing.T) {
		var buf bytes.Buffer
		w64(&buf, 0)
		w64(&buf, 5)
		_, err := newReader(buf.Bytes()).ReadSet()
		require.ErrorIs(t, err, ErrNodeRef)
	})

	t.Run("badorder", func(t *testing.T) {
		var buf bytes.Buffer
		w64(&buf, 2)
		a, b := pack(5, 1, 0)
		w64(&buf, a)
		w64(&buf, b)
		a, b = pack(7, 1, 2) // value 7 to the left of value 5
		w64(&buf, a)
		w64(&buf, b)
		w64(&buf, 3)
		_, err := newReader(buf.Bytes()).ReadSet()
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("badprojection", func(t *testing.T) {
		var buf bytes.Buffer
		w32 := func(v uint32) {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], v)
			buf.Write(b[:])
		}
		w32(2) // vector length
		w32(0)
		w64(&buf, 0) // initial = Empty
		w64(&buf, 0)
		w32(1) // one group
		w32(1)
		w32(0)
		w32(5) // level 5 does not fit vectors of length 2
		_, err := newReader(buf.Bytes()).ReadModel()
		require.ErrorIs(t, err, ErrFormat)
	})
}
