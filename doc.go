// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

/*
Package ludd defines a concrete type for List Decision Diagrams (LDD), a data
structure used to efficiently represent sets of integer vectors that all share
the same length, such as the states of a system in symbolic model checking.

Basics

A LDD is a rooted graph where each node carries an integer value together with
two successors: a "down" link, that points to the sets of suffixes that can
follow this value, and a "right" link, that chains the alternative values
available at the same position. Values along a right chain are strictly
increasing, so every set of vectors has exactly one representation. Two
terminal nodes close the structure: the empty set, and the set that contains
only the empty vector. With the method Empty (respectively Accept) you can
access the first (respectively the second) of these two constants.

Most operations over a LDD return a Node; that is a pointer to a "vertex" in
the data structure. We use integers to represent the address of Nodes, with
the convention that 1 (respectively 0) is the address of the constant Accept
(respectively Empty). The same canonical node can appear in many sets at once,
so the equality of two sets reduces to the equality of two addresses.

Operations are provided to compute the union, difference and intersection of
sets; to test membership of a vector; to project a set over a subset of its
positions; and to compute relational products, the workhorse of symbolic
reachability. The subpackage sylvan reads and writes the model files produced
by the Sylvan/LTSmin toolchain, and cmd/reach is a small state space
exploration tool built on top of both.

Use of build tags

For the most part, data structures and algorithms implemented in this library
are a direct adaptation of those found in the C-library BuDDy, developed by
Jorn Lind-Nielsen, transposed to the n-ary setting of List Decision Diagrams
as found in the Sylvan library. Nodes are stored in a dynamic array mixed with
a hash table, unused nodes are reclaimed with a mark and sweep collector, and
operation results are memoized in fixed-size caches.

To get access to better statistics about caches and garbage collection, as
well as to unlock logging of some operations, you can compile your executable
with the build tag `debug`.

Automatic memory management

The library is written in pure Go, without the need for CGo. We piggyback on
the garbage collection mechanism offered by our host language: we take care of
resizing and reclaiming nodes directly in the library, but "external"
references to nodes made by user code are automatically managed by the Go
runtime with finalizers. It is therefore safe to keep a Node around in a Go
value for as long as needed; explicit reference counting with AddRef and
DelRef is available for code that wants tighter control.
*/
package ludd
