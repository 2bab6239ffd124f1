package image

import (
	"context"
)

// Future is a single-shot decode that resolves once with a layer or an error.
type Future struct {
	Handle string

	done  chan struct{}
	layer *Layer
	err   error
}

// DecodeAsync fetches and decodes handle in the background.
func DecodeAsync(ctx context.Context, src Source, handle string, maxWidth int) *Future {
	f := &Future{Handle: handle, done: make(chan struct{})}
	go func() {
		defer close(f.done)
		name, data, err := src.Fetch(ctx, handle)
		if err != nil {
			f.err = err
			return
		}
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.layer, f.err = Decode(data, name, maxWidth)
	}()
	return f
}

// Done is closed when the future resolves.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (*Layer, error) {
	select {
	case <-f.done:
		return f.layer, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
