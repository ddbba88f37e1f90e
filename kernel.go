// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"errors"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like the two terminals) in the node list. It is egal to
// 1023 (10 bits). We keep the mark bit used during garbage collection at
// position 21 of the refcou field, so both never collide.
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTNODESIZE is the default size of the node table when no Nodesize
// option is given to New.
const _DEFAULTNODESIZE int = 10000

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

var errMemory = errors.New("unable to free memory or resize LDD")
