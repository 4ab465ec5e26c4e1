// Package util holds the small generic helpers shared across the
// module: assertions, a ternary, sets, map keys, and an optional type.
package util

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Set by tests so that failed asserts panic instead of exiting.
var AssertsPanic bool = false

func assertFailed(msg string) {
	if AssertsPanic {
		panic(msg)
	}
	debug.PrintStack()
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// Assert checks a can't-happen invariant, dying with msg otherwise.
func Assert(cond bool, msg ...interface{}) {
	if !cond {
		assertFailed(fmt.Sprint(msg...))
	}
}

func Assertf(cond bool, fmtstr string, v ...interface{}) {
	if !cond {
		assertFailed(fmt.Sprintf(fmtstr, v...))
	}
}
