// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package sylvan

import "errors"

// Errors reported while encoding or decoding. Functions wrap them with
// positional details, so test against them with errors.Is.
var (
	// ErrFormat reports a structural problem with the input, such as a
	// projection over more levels than the state vectors hold, or node
	// records that break the value ordering of the diagrams.
	ErrFormat = errors.New("malformed sylvan file")

	// ErrNodeRef reports a node record referring to an index that has not
	// been read yet. Records must come before the nodes that point to them.
	ErrNodeRef = errors.New("reference to an unknown node index")

	// ErrRange reports a diagram too large for the 47 bit node indexes of
	// the encoding.
	ErrRange = errors.New("node index does not fit the sylvan encoding")
)

// A serialized node takes sixteen bytes, two little endian 64 bit words with
// the layout (one character per 4 bits, highest bit first):
//
//	VVVV RRRR RRRR RRRm | DDDD DDDD DDDc VVVV
//
// where V is the 32 bit value, split over the top of the first word and the
// bottom of the second, D and R the 47 bit down and right indexes, m a mark
// bit and c the copy flag. The mark bit is scratch state of Sylvan's
// serializer and is ignored on both sides; the copy flag belongs to an
// extension we do not support and files carry it unset.
const (
	rightMask = 0x0000ffffffffffff
	indexBits = 47
	maxIndex  = 1<<indexBits - 1
)

func unpack(a, b uint64) (value uint32, down, right uint64) {
	right = (a & rightMask) >> 1
	value = uint32(a>>48) | uint32(b&0xffff)<<16
	down = b >> 17
	return value, down, right
}

func pack(value uint32, down, right uint64) (a, b uint64) {
	a = right<<1 | uint64(value&0xffff)<<48
	b = uint64(value)>>16 | down<<17
	return a, b
}
