// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package sylvan

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/dalzilio/ludd"
)

// A Model holds the contents of a model file: the length of the state
// vectors, the set of initial states, and the transition groups.
type Model struct {
	Length  int
	Initial ludd.Node
	Groups  []Group
}

// A Group is one transition group of a model. Read and Write list the levels
// (zero based positions of the state vectors) that the group depends on and
// updates. Relation is the transition relation over those levels only, with
// reads and writes interleaved, and Meta is the matching steering vector, so
// the successors of a set s by this group are RelProdMeta(s, Relation, Meta).
type Group struct {
	Read     []uint32
	Write    []uint32
	Relation ludd.Node
	Meta     ludd.Node
}

// A Reader decodes diagrams from the Sylvan serialization into an LDD. Node
// indexes are cumulative over the whole stream, so all the sets of one file
// must be read through the same Reader.
type Reader struct {
	b     *ludd.LDD
	r     io.Reader
	nodes []ludd.Node
	cls   []io.Closer
	buf   [8]byte
}

// NewReader returns a Reader decoding diagrams from r into the table b.
func NewReader(b *ludd.LDD, r io.Reader) *Reader {
	return &Reader{
		b:     b,
		r:     r,
		nodes: []ludd.Node{b.Empty(), b.Accept()},
	}
}

// Open opens the named file for reading with NewReader, decompressing its
// contents transparently when the name ends in .gz, .zst or .lz4. Call Close
// when done.
func Open(b *ludd.LDD, path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd := NewReader(b, f)
	rd.cls = []io.Closer{f}
	switch filepath.Ext(path) {
	case ".gz":
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rd.r = z
		rd.cls = []io.Closer{z, f}
	case ".zst":
		z, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		zc := z.IOReadCloser()
		rd.r = zc
		rd.cls = []io.Closer{zc, f}
	case ".lz4":
		rd.r = lz4.NewReader(f)
	}
	return rd, nil
}

// Close closes the file underlying a Reader obtained with Open, and does
// nothing for a Reader built over a plain io.Reader.
func (rd *Reader) Close() error {
	var err error
	for _, c := range rd.cls {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	rd.cls = nil
	return err
}

func (rd *Reader) u32() (uint32, error) {
	if _, err := io.ReadFull(rd.r, rd.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(rd.buf[:4]), nil
}

func (rd *Reader) u64() (uint64, error) {
	if _, err := io.ReadFull(rd.r, rd.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(rd.buf[:8]), nil
}

// node maps a file index to the node it denotes. Indexes 0 and 1 are always
// the two terminals.
func (rd *Reader) node(index uint64) (ludd.Node, error) {
	if index >= uint64(len(rd.nodes)) {
		return nil, fmt.Errorf("%w: %d, after reading %d nodes", ErrNodeRef, index, len(rd.nodes)-2)
	}
	return rd.nodes[index], nil
}

// ReadSet decodes one serialized set: a count, then count node records, then
// the index of the root. Records only ever point to nodes that come before
// them, so we can build the diagram in one pass.
func (rd *Reader) ReadSet() (ludd.Node, error) {
	count, err := rd.u64()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < count; i++ {
		a, err := rd.u64()
		if err != nil {
			return nil, err
		}
		w, err := rd.u64()
		if err != nil {
			return nil, err
		}
		value, down, right := unpack(a, w)
		d, err := rd.node(down)
		if err != nil {
			return nil, err
		}
		r, err := rd.node(right)
		if err != nil {
			return nil, err
		}
		n := rd.b.MakeNode(value, d, r)
		if n == nil {
			return nil, fmt.Errorf("%w: %s", ErrFormat, rd.b.Error())
		}
		rd.nodes = append(rd.nodes, n)
	}
	root, err := rd.u64()
	if err != nil {
		return nil, err
	}
	return rd.node(root)
}

// ReadModel decodes a model file: the length of the state vectors, the
// initial states, the read and write projections of every transition group,
// and then the group relations. Trailing data, such as the action label
// tables written by some LTSmin frontends, is ignored.
func (rd *Reader) ReadModel() (*Model, error) {
	length, err := rd.u32()
	if err != nil {
		return nil, err
	}
	// the second word is called k in ldd2bdd.c but is never used
	if _, err := rd.u32(); err != nil {
		return nil, err
	}
	initial, err := rd.ReadSet()
	if err != nil {
		return nil, err
	}
	ngroups, err := rd.u32()
	if err != nil {
		return nil, err
	}
	m := &Model{
		Length:  int(length),
		Initial: initial,
		Groups:  make([]Group, ngroups),
	}
	for i := range m.Groups {
		// both counts come before the two lists of levels
		nr, err := rd.u32()
		if err != nil {
			return nil, err
		}
		nw, err := rd.u32()
		if err != nil {
			return nil, err
		}
		read, err := rd.levels(int(nr), m.Length)
		if err != nil {
			return nil, err
		}
		write, err := rd.levels(int(nw), m.Length)
		if err != nil {
			return nil, err
		}
		m.Groups[i].Read = read
		m.Groups[i].Write = write
		m.Groups[i].Meta = rd.b.MakeMeta(MetaVector(read, write))
		if m.Groups[i].Meta == nil {
			return nil, fmt.Errorf("%w: %s", ErrFormat, rd.b.Error())
		}
	}
	for i := range m.Groups {
		if m.Groups[i].Relation, err = rd.ReadSet(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// levels reads a projection, a list of count levels, and checks it fits the
// vector length.
func (rd *Reader) levels(count, length int) ([]uint32, error) {
	if count > length {
		return nil, fmt.Errorf("%w: projection over %d levels with vectors of length %d", ErrFormat, count, length)
	}
	levels := make([]uint32, count)
	for k := range levels {
		v, err := rd.u32()
		if err != nil {
			return nil, err
		}
		if int(v) >= length {
			return nil, fmt.Errorf("%w: projection level %d with vectors of length %d", ErrFormat, v, length)
		}
		levels[k] = v
	}
	return levels, nil
}

// LoadModel reads a model from the named file, decompressing it by
// extension like Open.
func LoadModel(b *ludd.LDD, path string) (*Model, error) {
	rd, err := Open(b, path)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return rd.ReadModel()
}
