// Package jsonstore persists collections as whole JSON arrays on disk.
//
// Every read loads the complete file and every mutation rewrites it. Writers
// to the same file are serialized twice over: a mutex orders goroutines in
// this process and an advisory file lock (<file>.lock) orders processes, so
// the server and the offline importer can share a data directory. Files are
// replaced atomically, which lets readers skip locking altogether.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// ErrCorrupt is returned when a collection file is not a JSON array.
var ErrCorrupt = errors.New("corrupt collection file")

// Option configures a Collection.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger reports elements that do not decode into T.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

const lockRetryDelay = 20 * time.Millisecond

// Collection is a JSON array of T stored in a single file.
//
// Elements that do not decode into T (a hand-edited record with a wrong
// field type, say) are left out of Load results and written back verbatim
// by Update, after the decodable ones.
type Collection[T any] struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger logging.Logger
}

// Open prepares the collection at path, creating the parent directory and an
// empty array file when missing.
func Open[T any](path string, opts ...Option) (*Collection[T], error) {
	o := options{logger: logging.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir for %s: %w", path, err)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := atomic.WriteFile(path, bytes.NewReader([]byte("[]\n"))); err != nil {
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &Collection[T]{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: o.logger.With("module", "jsonstore", "file", filepath.Base(path)),
	}, nil
}

func (c *Collection[T]) Path() string {
	return c.path
}

// Load returns every decodable element in file order. An empty file reads as
// an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, _, err := c.read(ctx)
	return items, err
}

// Update runs a read-modify-write cycle: it takes both locks, loads the
// collection, hands it to fn and writes back whatever fn returns. When fn
// fails the file is left untouched and fn's error is returned as is.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	locked, err := c.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", c.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", c.path)
	}
	defer c.lock.Unlock()

	items, kept, err := c.read(ctx)
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}

	return c.write(items, kept)
}

// read returns the decodable elements and the raw bytes of the rest.
func (c *Collection[T]) read(ctx context.Context) ([]T, []json.RawMessage, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	items := []T{}
	if len(bytes.TrimSpace(b)) == 0 {
		return items, nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w %s: %v", ErrCorrupt, c.path, err)
	}

	var kept []json.RawMessage
	for i, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			c.logger.Warn(ctx, "skipping undecodable element", "index", i, "error", err.Error())
			kept = append(kept, elem)
			continue
		}
		items = append(items, v)
	}

	return items, kept, nil
}

func (c *Collection[T]) write(items []T, kept []json.RawMessage) error {
	out := make([]json.RawMessage, 0, len(items)+len(kept))
	for _, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.path, err)
		}
		out = append(out, b)
	}
	out = append(out, kept...)

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	b = append(b, '\n')

	if err := atomic.WriteFile(c.path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}

	return nil
}
