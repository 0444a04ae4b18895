package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 250 * time.Millisecond

// titleLocks serializes runs that stage the same title, across goroutines
// and processes. Lock files are left in place; removing them would race
// with a waiter that already opened the file.
type titleLocks struct {
	dir  string
	mu   sync.Mutex
	held map[string]*flock.Flock
}

func newTitleLocks(dir string) *titleLocks {
	return &titleLocks{dir: dir, held: make(map[string]*flock.Flock)}
}

func (l *titleLocks) lockPath(stagedPath string) string {
	return filepath.Join(l.dir, "."+filepath.Base(stagedPath)+".lock")
}

// acquire blocks until the title is free or ctx is done.
func (l *titleLocks) acquire(ctx context.Context, stagedPath string) error {
	fl := flock.New(l.lockPath(stagedPath))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire lock: %w", ctx.Err())
	}

	l.mu.Lock()
	l.held[stagedPath] = fl
	l.mu.Unlock()
	return nil
}

func (l *titleLocks) release(stagedPath string) error {
	l.mu.Lock()
	fl, ok := l.held[stagedPath]
	delete(l.held, stagedPath)
	l.mu.Unlock()

	if !ok {
		return nil
	}
	if err := fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
