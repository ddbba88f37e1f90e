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

// A Writer encodes diagrams from an LDD into the Sylvan serialization. Node
// indexes are cumulative: a node shared between two sets is written only
// once, in the block of the first set that reaches it, so a file must be
// written through a single Writer and read back in the same order.
type Writer struct {
	b    *ludd.LDD
	w    io.Writer
	ids  map[int]uint64
	next uint64
	cls  []io.Closer
	buf  [8]byte
}

// NewWriter returns a Writer encoding diagrams from the table b to w.
func NewWriter(b *ludd.LDD, w io.Writer) *Writer {
	return &Writer{
		b:    b,
		w:    w,
		ids:  make(map[int]uint64),
		next: 2,
	}
}

// Create creates or truncates the named file and returns a Writer over it,
// compressing transparently when the name ends in .gz, .zst or .lz4. Close
// flushes the compressor and closes the file.
func Create(b *ludd.LDD, path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wr := NewWriter(b, f)
	wr.cls = []io.Closer{f}
	switch filepath.Ext(path) {
	case ".gz":
		z := gzip.NewWriter(f)
		wr.w = z
		wr.cls = []io.Closer{z, f}
	case ".zst":
		z, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		wr.w = z
		wr.cls = []io.Closer{z, f}
	case ".lz4":
		z := lz4.NewWriter(f)
		wr.w = z
		wr.cls = []io.Closer{z, f}
	}
	return wr, nil
}

// Close closes the file underlying a Writer obtained with Create, flushing
// the compressor first, and does nothing for a Writer built over a plain
// io.Writer.
func (wr *Writer) Close() error {
	var err error
	for _, c := range wr.cls {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	wr.cls = nil
	return err
}

func (wr *Writer) u32(v uint32) error {
	binary.LittleEndian.PutUint32(wr.buf[:4], v)
	_, err := wr.w.Write(wr.buf[:4])
	return err
}

func (wr *Writer) u64(v uint64) error {
	binary.LittleEndian.PutUint64(wr.buf[:8], v)
	_, err := wr.w.Write(wr.buf[:8])
	return err
}

// id maps a table index to its index in the file. Terminals keep 0 and 1.
func (wr *Writer) id(p int) uint64 {
	if p < 2 {
		return uint64(p)
	}
	return wr.ids[p]
}

// WriteSet encodes the set denoted by n: the number of nodes that no
// earlier block already holds, their records with down and right links
// before the nodes pointing to them, and the index of the root.
func (wr *Writer) WriteSet(n ludd.Node) error {
	if n == nil {
		return fmt.Errorf("cannot serialize the nil result of a failed operation")
	}
	type lnode struct {
		value       uint32
		down, right int
	}
	reach := make(map[int]lnode)
	err := wr.b.Allnodes(func(id int, value uint32, down, right int) error {
		reach[id] = lnode{value, down, right}
		return nil
	}, n)
	if err != nil {
		return err
	}

	// order the new nodes bottom up with an explicit stack, right chains can
	// be long
	order := make([]int, 0, len(reach))
	visited := make(map[int]bool, len(reach))
	stack := []int{*n}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		if p < 2 {
			stack = stack[:len(stack)-1]
			continue
		}
		if _, done := wr.ids[p]; done {
			stack = stack[:len(stack)-1]
			continue
		}
		if !visited[p] {
			visited[p] = true
			stack = append(stack, reach[p].down, reach[p].right)
			continue
		}
		stack = stack[:len(stack)-1]
		if wr.next > maxIndex {
			return fmt.Errorf("%w: diagram needs more than %d nodes", ErrRange, uint64(maxIndex))
		}
		wr.ids[p] = wr.next
		wr.next++
		order = append(order, p)
	}

	if err := wr.u64(uint64(len(order))); err != nil {
		return err
	}
	for _, p := range order {
		a, b := pack(reach[p].value, wr.id(reach[p].down), wr.id(reach[p].right))
		if err := wr.u64(a); err != nil {
			return err
		}
		if err := wr.u64(b); err != nil {
			return err
		}
	}
	return wr.u64(wr.id(*n))
}

// WriteModel encodes a model file in the layout read by ReadModel. The Meta
// field of the groups is not serialized, readers rebuild it from the
// projections.
func (wr *Writer) WriteModel(m *Model) error {
	if err := wr.u32(uint32(m.Length)); err != nil {
		return err
	}
	if err := wr.u32(0); err != nil {
		return err
	}
	if err := wr.WriteSet(m.Initial); err != nil {
		return err
	}
	if err := wr.u32(uint32(len(m.Groups))); err != nil {
		return err
	}
	for _, g := range m.Groups {
		if err := wr.u32(uint32(len(g.Read))); err != nil {
			return err
		}
		if err := wr.u32(uint32(len(g.Write))); err != nil {
			return err
		}
		for _, lvl := range g.Read {
			if err := wr.u32(lvl); err != nil {
				return err
			}
		}
		for _, lvl := range g.Write {
			if err := wr.u32(lvl); err != nil {
				return err
			}
		}
	}
	for _, g := range m.Groups {
		if err := wr.WriteSet(g.Relation); err != nil {
			return err
		}
	}
	return nil
}
