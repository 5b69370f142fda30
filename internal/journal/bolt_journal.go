package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/korimako-labs/trademe-probe/pkg/sinks"
)

const (
	traceBucket  = "traces"
	traceKeySize = 16
)

// boltJournal implements a Journal backed by BoltDB. Keys are big-endian
// append timestamps plus a sequence suffix, so iteration order is insertion
// order and expiry can be decided from the key alone.
type boltJournal struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	seq             atomic.Uint64
	traceTTL        time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Journal.
func openBolt(path string, opts Options) (Journal, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(traceBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	j := &boltJournal{
		db:              db,
		traceTTL:        opts.TraceTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	j.lastCleanup.Store(time.Now().Unix())
	return j, nil
}

// Close closes the BoltDB journal.
func (b *boltJournal) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Append stores a trace event.
func (b *boltJournal) Append(evt sinks.Event) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal trace event: %w", err)
	}

	key := b.traceKey(now)
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(traceBucket))
		if bucket == nil {
			return fmt.Errorf("trace bucket missing")
		}
		return bucket.Put(key, payload)
	})
}

// Recent returns up to n of the newest trace events, newest first.
func (b *boltJournal) Recent(n int) ([]sinks.Event, error) {
	if b == nil || b.db == nil || n <= 0 {
		return nil, nil
	}

	var out []sinks.Event
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(traceBucket))
		if bucket == nil {
			return fmt.Errorf("trace bucket missing")
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var evt sinks.Event
			if err := json.Unmarshal(v, &evt); err != nil {
				return fmt.Errorf("decode trace event: %w", err)
			}
			out = append(out, evt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// traceKey encodes append time and a process-local sequence number so
// back-to-back appends never collide.
func (b *boltJournal) traceKey(now time.Time) []byte {
	key := make([]byte, traceKeySize)
	binary.BigEndian.PutUint64(key[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], b.seq.Add(1))
	return key
}

// maybeCleanupExpired drops entries older than the TTL, at most once per
// cleanup interval.
func (b *boltJournal) maybeCleanupExpired(now time.Time) error {
	last := b.lastCleanup.Load()
	if now.Sub(time.Unix(last, 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	// Re-check under the lock; another caller may have just cleaned.
	last = b.lastCleanup.Load()
	if now.Sub(time.Unix(last, 0)) < b.cleanupInterval {
		return nil
	}

	cutoff := uint64(now.Add(-b.traceTTL).UnixNano())
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(traceBucket))
		if bucket == nil {
			return fmt.Errorf("trace bucket missing")
		}

		c := bucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if len(k) < 8 {
				continue
			}
			if binary.BigEndian.Uint64(k[:8]) >= cutoff {
				break
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup expired traces: %w", err)
	}

	b.lastCleanup.Store(now.Unix())
	return nil
}
