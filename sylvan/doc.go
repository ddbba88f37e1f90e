// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

/*
Package sylvan reads and writes List Decision Diagrams in the serialization
format of the Sylvan model checking library. In particular it can load the
model files produced by LTSmin's ldd2bdd tool, which hold the initial states
of a system together with its transition groups, ready to be explored with
RelProdMeta. Files compressed with gzip, zstd or lz4 are decompressed
transparently based on their extension.

Node indexes in a file are cumulative: a node shared between two sets is
serialized only once, so all the sets of one file must go through the same
Reader or Writer.
*/
package sylvan
