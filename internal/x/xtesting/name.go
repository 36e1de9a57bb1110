package xtesting

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UniqueName returns a name with the given prefix that is unique across
// processes, for use with resources that outlive a single test run.
func UniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

var sequence atomic.Uint64

// SequentialName returns a name with the given prefix that is unique within
// this process.
func SequentialName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, sequence.Add(1))
}
