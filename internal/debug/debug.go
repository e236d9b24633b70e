//go:build debug

// Package debug includes debugging helpers used internally by the
// btreeset node and row packages and by xunsafe/layout.
//
// These helpers are compiled out entirely unless the build carries the
// "debug" tag, so production builds pay nothing for the extra checking:
// invariants that are expensive to check on every node split or intra-node
// search only run in builds that opt in.
package debug

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true if the compiler is being built with the debug tag, which
// enables various debugging features.
const Enabled = true

var debugPattern = flag.String("debug.filter", "", "regexp to filter debug logs by")

// Log prints debugging information to stderr.
//
// context is optional args for fmt.Printf printed before operation, useful
// for identifying a set of related calls (e.g. the row or node being
// mutated) before the message itself.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)

	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/flier/simdttm/pkg/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)

	_, _ = fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid())
	if len(context) >= 1 {
		_, _ = fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...)
	}
	_, _ = fmt.Fprintf(buf, "] %s: ", operation)
	_, _ = fmt.Fprintf(buf, format, args...)

	if pattern := *debugPattern; pattern != "" {
		if ok, err := regexp.MatchString(pattern, buf.String()); err == nil && !ok {
			return
		}
	}

	_, _ = buf.Write([]byte{'\n'})
	_, _ = os.Stderr.WriteString(buf.String())
}

// Assert panics if cond is false, but only in debug mode.
//
// Use this for internal invariants (e.g. "node must not be full before
// insert") that a caller cannot violate through the public API. Caller-
// reachable preconditions (e.g. an out-of-range logical id) must still be
// checked unconditionally and are not routed through Assert.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("simdttm: internal assertion failed: "+format, args...))
	}
}

// Value is a value of any type that only exists when the debug tag is
// enabled. When disabled, this struct is replaced with an empty struct.
type Value[T any] struct {
	x T
}

// Get returns a pointer to this value. Panics if not in debug mode.
func (v *Value[T]) Get() *T { return &v.x }
