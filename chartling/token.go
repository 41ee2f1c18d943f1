package chartling

import (
	"sync"
	"time"
)

// Token is returned by asynchronous engine operations and resolves once the
// operation has finished.
type Token interface {
	// Wait blocks until the operation completes. It always returns true.
	Wait() bool
	// WaitTimeout blocks until the operation completes or d elapses, and
	// reports whether it completed.
	WaitTimeout(d time.Duration) bool
	// Done is closed when the operation completes.
	Done() <-chan struct{}
	// Error is the outcome; only meaningful once Done is closed.
	Error() error
}

// CompletionToken is a Token that engines resolve by calling Complete.
type CompletionToken struct {
	once     sync.Once
	mu       sync.RWMutex
	complete chan struct{}
	err      error
}

// NewToken creates an unresolved CompletionToken.
func NewToken() *CompletionToken {
	return &CompletionToken{complete: make(chan struct{})}
}

// Complete resolves the token with err. Only the first call has any effect.
func (t *CompletionToken) Complete(err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.complete)
	})
}

func (t *CompletionToken) Wait() bool {
	<-t.complete
	return true
}

func (t *CompletionToken) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.complete:
		return true
	case <-timer.C:
		return false
	}
}

func (t *CompletionToken) Done() <-chan struct{} {
	return t.complete
}

func (t *CompletionToken) Error() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// await blocks on tok and returns its error.
func await(tok Token) error {
	<-tok.Done()
	return tok.Error()
}
