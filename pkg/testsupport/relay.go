package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-intake/pkg/relay"
)

// FakeRelay records submissions and answers with Err. When Block is set,
// Send waits until Release is called or the context ends.
type FakeRelay struct {
	mu          sync.Mutex
	Err         error
	submissions []relay.Submission

	block   chan struct{}
	started chan struct{}
}

var _ relay.Sender = (*FakeRelay)(nil)

// NewFakeRelay returns a relay that accepts every submission.
func NewFakeRelay() *FakeRelay {
	return &FakeRelay{}
}

// NewBlockingFakeRelay returns a relay whose Send blocks until Release.
// Started is signalled when a Send begins.
func NewBlockingFakeRelay() *FakeRelay {
	return &FakeRelay{
		block:   make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

// Send records sub and returns the configured error.
func (r *FakeRelay) Send(ctx context.Context, sub relay.Submission) error {
	r.mu.Lock()
	r.submissions = append(r.submissions, sub)
	err := r.Err
	block, started := r.block, r.started
	r.mu.Unlock()

	if block != nil {
		started <- struct{}{}
		select {
		case <-block:
		case <-ctx.Done():
			return &relay.SubmissionError{Transport: "fake", Err: ctx.Err()}
		}
	}
	return err
}

// Started is signalled whenever a blocking Send begins.
func (r *FakeRelay) Started() <-chan struct{} {
	return r.started
}

// Release unblocks pending and future Send calls.
func (r *FakeRelay) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.block != nil {
		close(r.block)
		r.block = nil
	}
}

// Submissions returns the recorded submissions.
func (r *FakeRelay) Submissions() []relay.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]relay.Submission(nil), r.submissions...)
}

// Calls reports how many times Send was invoked.
func (r *FakeRelay) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}
