package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when a document lock cannot be taken before the
// context ends.
var ErrLocked = errors.New("document is locked")

// docLocks serializes read-merge-write cycles per document: a buffered
// channel per path inside the process, and a flock file across processes
// (a watcher and a manual run, say).
type docLocks struct {
	dir   string
	retry time.Duration

	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newDocLocks(dir string, retry time.Duration) *docLocks {
	return &docLocks{
		dir:   dir,
		retry: retry,
		slots: make(map[string]chan struct{}),
	}
}

func (l *docLocks) slot(docPath string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[docPath]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[docPath] = s
	}
	return s
}

// lockPath names the lock file after a hash of the document path so that
// documents anywhere on disk share one lock directory.
func (l *docLocks) lockPath(docPath string) string {
	sum := sha256.Sum256([]byte(docPath))
	return filepath.Join(l.dir, "propdoc-"+hex.EncodeToString(sum[:8])+".lock")
}

// lock blocks until docPath is free or ctx ends. The returned func releases
// the lock and must be called exactly once.
func (l *docLocks) lock(ctx context.Context, docPath string) (func(), error) {
	slot := l.slot(docPath)
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, docPath, ctx.Err())
	}

	fl := flock.New(l.lockPath(docPath))
	locked, err := fl.TryLockContext(ctx, l.retry)
	if err != nil || !locked {
		<-slot
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, docPath, err)
	}

	return func() {
		_ = fl.Unlock()
		<-slot
	}, nil
}
