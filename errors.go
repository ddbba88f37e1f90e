// Copyright (c) 2026 Silvano DAL ZILIO
//
// MIT License

package ludd

import (
	"fmt"
	"log"
)

// Error returns the error status of the LDD.
func (b *LDD) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored returns true if there was an error during a computation.
func (b *LDD) Errored() bool {
	return b.error != nil
}

func (b *LDD) seterror(format string, a ...interface{}) Node {
	if b.error != nil {
		format = format + "; " + b.Error()
		b.error = fmt.Errorf(format, a...)
		return nil
	}
	b.error = fmt.Errorf(format, a...)
	if _DEBUG {
		log.Println(b.error)
	}
	return nil
}

// checkptr checks that a node reference can be safely used in an operation.
// Once the LDD is in its error state, every subsequent operation answers an
// error without touching the table.
func (b *LDD) checkptr(n Node) error {
	if b.error != nil {
		return b.error
	}
	if n == nil {
		return fmt.Errorf("trying to use nil pointer")
	}
	if (*n < 0) || (*n >= len(b.nodes)) {
		return fmt.Errorf("illegal access to node %d", *n)
	}
	if (*n >= 2) && (b.nodes[*n].down == -1) {
		return fmt.Errorf("illegal access to reclaimed node %d", *n)
	}
	return nil
}
