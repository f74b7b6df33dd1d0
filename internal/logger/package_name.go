package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

type PackageNameResolver struct {
	BasePackage string
	Depth       int
}

// PackageName returns the name of the calling package relative to BasePackage, ie
// "internal/fees/charging".
func (r *PackageNameResolver) PackageName() string {
	pc, _, _, _ := runtime.Caller(r.depth())
	// For example: github.com/alphabill-org/feecharging/internal/fees/charging.New
	pcName := runtime.FuncForPC(pc).Name()
	parts := strings.SplitN(pcName, r.BasePackage, 2)
	var pkg string
	if len(parts) < 2 {
		pkg = parts[0]
	} else {
		pkg = strings.SplitN(parts[1], ".", 2)[0]
	}
	return strings.Trim(pkg, "/")
}

func (r *PackageNameResolver) depth() int {
	// 2 because it's used from inside logging code, we want the caller of that
	if r.Depth == 0 {
		return 2
	}
	return r.Depth
}

// goroutineID parses the goroutine id out of the stack header.
func goroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// consoleFormatCallerLastTwoDirs shortens caller to the last two directories and file.
func consoleFormatCallerLastTwoDirs(i interface{}) string {
	c, _ := i.(string)
	if len(c) == 0 {
		return c
	}
	split := strings.Split(c, string(os.PathSeparator))
	l := len(split)
	if l > 2 {
		return fmt.Sprintf("%s/%s/%s", split[l-3], split[l-2], split[l-1])
	} else if l > 1 {
		return fmt.Sprintf("%s/%s", split[l-2], split[l-1])
	}
	return c
}
