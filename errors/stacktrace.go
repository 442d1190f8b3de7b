package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the outermost stack trace recorded in err, or nil.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	visit(err, func(x error) bool {
		if s, ok := x.(stackTracer); ok {
			st = s.StackTrace()
		}
		return st == nil
	})
	return st
}

// Frames of these functions are noise at the top of a trace.
var internalFrames = []string{
	"github.com/pensionledger/weave/errors.Wrap",
	"github.com/pensionledger/weave/errors.Field",
	"github.com/pensionledger/weave/errors.Recover",
	"runtime.",
}

func frameFunc(f errors.Frame) *runtime.Func {
	return runtime.FuncForPC(uintptr(f) - 1)
}

func hasPrefix(f errors.Frame, prefixes ...string) bool {
	fn := frameFunc(f)
	if fn == nil {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(fn.Name(), p) {
			return true
		}
	}
	return false
}

// trim cuts the error helpers from the top and the runtime and test
// runner from the bottom of st.
func trim(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && hasPrefix(st[0], internalFrames...) {
		st = st[1:]
	}
	for len(st) > 1 && hasPrefix(st[len(st)-1], "runtime.", "testing.") {
		st = st[:len(st)-1]
	}
	return st
}

// Format prints the message for %s. %v adds the file and line the error
// was first wrapped at, %+v the whole stack before the message.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	st := trim(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n%s", st, e.Error())
		return
	}
	fmt.Fprint(s, e.Error())
	if len(st) == 0 {
		return
	}
	if fn := frameFunc(st[0]); fn != nil {
		file, line := fn.FileLine(uintptr(st[0]) - 1)
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, " [%s:%d]", file, line)
	}
}
