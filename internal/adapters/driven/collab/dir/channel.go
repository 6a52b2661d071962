// Package dir implements the collaboration channel over a shared drop directory.
//
// Every mutation is written as one JSON file. Participants watch the directory
// with fsnotify and apply files written by others. Files are written under a
// hidden temporary name and renamed into place, so a watcher never reads a
// partial file.
package dir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Ensure Channel implements the interface.
var _ driven.CollaborationChannel = (*Channel)(nil)

const (
	mutationExt = ".json"
	bufferSize  = 64
)

// Channel is a drop-directory collaboration channel.
type Channel struct {
	dir string

	mu      sync.Mutex
	seen    map[string]struct{}
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a channel over dir. The directory is created on first use.
func New(dir string) *Channel {
	return &Channel{
		dir:  dir,
		seen: make(map[string]struct{}),
	}
}

// Dir returns the drop directory.
func (c *Channel) Dir() string {
	return c.dir
}

// Publish writes a mutation file. The channel remembers its own mutation IDs
// and never delivers them back.
func (c *Channel) Publish(_ context.Context, m domain.Mutation) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrChannelClosed
	}
	if m.ID != "" {
		c.seen[m.ID] = struct{}{}
	}
	c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("creating drop directory: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling mutation: %w", err)
	}

	name := fileName(m)
	tmp := filepath.Join(c.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing mutation: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(c.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publishing mutation: %w", err)
	}
	return nil
}

// Subscribe watches the drop directory. Files already present are not replayed.
func (c *Channel) Subscribe(ctx context.Context) (<-chan domain.Mutation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrChannelClosed
	}
	if c.watcher != nil {
		return nil, fmt.Errorf("%w: already subscribed", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return nil, fmt.Errorf("creating drop directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", c.dir, err)
	}
	c.watcher = watcher

	out := make(chan domain.Mutation, bufferSize)
	go c.watch(ctx, watcher, out)
	return out, nil
}

func (c *Channel) watch(ctx context.Context, watcher *fsnotify.Watcher, out chan<- domain.Mutation) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			c.stopWatcher(watcher)
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			m := c.handleFsEvent(event)
			if m == nil {
				continue
			}
			select {
			case out <- *m:
			case <-ctx.Done():
				c.stopWatcher(watcher)
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("collab watcher: %v", err)
		}
	}
}

// handleFsEvent decodes a mutation file. It returns nil for events that
// carry no new mutation from another participant.
func (c *Channel) handleFsEvent(event fsnotify.Event) *domain.Mutation {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != mutationExt {
		return nil
	}

	data, err := os.ReadFile(event.Name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("reading mutation %s: %v", base, err)
		}
		return nil
	}
	var m domain.Mutation
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn("decoding mutation %s: %v", base, err)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m.ID != "" {
		if _, dup := c.seen[m.ID]; dup {
			return nil
		}
		c.seen[m.ID] = struct{}{}
	}
	return &m
}

func (c *Channel) stopWatcher(w *fsnotify.Watcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == w {
		c.watcher = nil
	}
	w.Close()
}

// Close stops the watcher. Close is idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// fileName orders files by time and keeps names unique per mutation.
func fileName(m domain.Mutation) string {
	at := m.At
	if at.IsZero() {
		at = time.Now()
	}
	id := m.ID
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatInt(at.UnixNano(), 10) + "-" + id + mutationExt
}
