package xerrors

import (
	"fmt"

	"github.com/dogmatiq/dirmap/mapping"
)

// Wrap adds additional context to an error.
//
// Errors that are part of the [mapping.Mapping] contract are left unchanged
// so that their messages remain stable.
func Wrap(err *error, format string, args ...any) {
	if err == nil {
		panic("err must not be nil")
	}

	if *err == nil {
		return
	}

	if mapping.IsNotFound(*err) || mapping.IsInvalidKey(*err) {
		return
	}

	*err = fmt.Errorf(format+": %w", append(args, *err)...)
}
