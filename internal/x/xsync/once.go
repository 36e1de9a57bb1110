package xsync

import (
	"context"
	"sync"
)

// SucceedOnce runs an operation until it succeeds, then never again.
//
// Unlike [sync.Once], a failed attempt does not prevent later calls from
// trying again.
type SucceedOnce struct {
	m    sync.Mutex
	done bool
}

// Do calls fn unless a previous call to fn has returned a nil error.
func (o *SucceedOnce) Do(
	ctx context.Context,
	fn func(context.Context) error,
) error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.done {
		return nil
	}

	if err := fn(ctx); err != nil {
		return err
	}

	o.done = true
	return nil
}
