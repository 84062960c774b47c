package dashboard

import "context"

// tracker hands out per-source request tokens. Starting a request cancels
// the previous in-flight request for the same source, and only the holder
// of the latest token may apply its result. Callers hold the controller lock.
type tracker struct {
	seq    map[Source]uint64
	cancel map[Source]context.CancelFunc
}

func newTracker() *tracker {
	return &tracker{
		seq:    make(map[Source]uint64),
		cancel: make(map[Source]context.CancelFunc),
	}
}

func (t *tracker) begin(parent context.Context, src Source) (context.Context, uint64) {
	if cancel := t.cancel[src]; cancel != nil {
		cancel()
	}
	t.seq[src]++
	ctx, cancel := context.WithCancel(parent)
	t.cancel[src] = cancel
	return ctx, t.seq[src]
}

func (t *tracker) current(src Source, token uint64) bool {
	return t.seq[src] == token
}

// finish releases the request's context. It reports false for a stale token.
func (t *tracker) finish(src Source, token uint64) bool {
	if !t.current(src, token) {
		return false
	}
	if cancel := t.cancel[src]; cancel != nil {
		cancel()
		delete(t.cancel, src)
	}
	return true
}

func (t *tracker) cancelAll() {
	for src, cancel := range t.cancel {
		cancel()
		delete(t.cancel, src)
	}
}
