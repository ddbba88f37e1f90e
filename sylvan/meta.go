// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package sylvan

import "github.com/RoaringBitmap/roaring/v2"

// MetaVector builds the steering vector for a transition group that reads
// the levels in read and writes the levels in write, in the form accepted by
// MakeMeta. A level both read and written steers a read and a write (1, 2);
// a level only read filters without changing the value (3); a level only
// written is overwritten regardless of its value (4); every other level up
// to the last touched one is skipped (0). The vector stops at the last
// touched level, so positions past it are left untouched.
func MetaVector(read, write []uint32) []int {
	rd := roaring.New()
	for _, lvl := range read {
		rd.Add(lvl)
	}
	wr := roaring.New()
	for _, lvl := range write {
		wr.Add(lvl)
	}
	if rd.IsEmpty() && wr.IsEmpty() {
		return nil
	}
	last := uint32(0)
	if !rd.IsEmpty() {
		last = rd.Maximum()
	}
	if !wr.IsEmpty() && wr.Maximum() > last {
		last = wr.Maximum()
	}
	meta := make([]int, 0, last+2)
	for lvl := uint32(0); lvl <= last; lvl++ {
		switch {
		case rd.Contains(lvl) && wr.Contains(lvl):
			meta = append(meta, 1, 2)
		case rd.Contains(lvl):
			meta = append(meta, 3)
		case wr.Contains(lvl):
			meta = append(meta, 4)
		default:
			meta = append(meta, 0)
		}
	}
	return meta
}
