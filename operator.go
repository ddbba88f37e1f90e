// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

// operator discriminates the entries of the binary operation cache. The
// public interface only exposes named operations (Union, Minus, Intersect),
// so the type stays private.
type operator int

const (
	opUnion operator = iota
	opMinus
	opIntersect
)

var opnames = [3]string{
	opUnion:     "union",
	opMinus:     "minus",
	opIntersect: "intersect",
}

func (op operator) String() string {
	return opnames[op]
}
