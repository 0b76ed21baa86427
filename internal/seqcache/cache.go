// internal/seqcache/cache.go
package seqcache

import (
	"sync"

	"genoscope-core/dna"
	"go.uber.org/zap"
)

// Buffer is one cached, encoded genome sequence. Buffers are immutable
// once published: registration replaces the whole buffer, never patches it,
// so any number of execution contexts may read one concurrently.
type Buffer struct {
	Key    string
	Bytes  []byte
	Length int
	Shared bool
}

// Store caches encoded sequences by genome id so dispatch does not
// re-encode or copy the payload on every request. There is no size bound
// and no automatic eviction: release is the caller's responsibility
// (leaving a genome view releases its buffer).
type Store struct {
	mu     sync.RWMutex
	bufs   map[string]*Buffer
	shared bool
	log    *zap.Logger
}

// New creates a Store. shared marks buffers as residing in memory visible
// to all execution contexts, letting dispatch pass them by reference; when
// false the scheduler copies the payload into each request instead.
func New(shared bool, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		bufs:   make(map[string]*Buffer),
		shared: shared,
		log:    log,
	}
}

// Register normalizes and stores seq under id, replacing any prior buffer.
func (s *Store) Register(id string, seq []byte) *Buffer {
	b := &Buffer{
		Key:    id,
		Bytes:  dna.Normalize(seq),
		Length: len(seq),
		Shared: s.shared,
	}
	s.mu.Lock()
	_, replaced := s.bufs[id]
	s.bufs[id] = b
	s.mu.Unlock()
	s.log.Debug("sequence registered",
		zap.String("genome", id),
		zap.Int("length", b.Length),
		zap.Bool("replaced", replaced),
		zap.Bool("shared", b.Shared))
	return b
}

// Get returns the buffer for id, or nil if absent.
func (s *Store) Get(id string) *Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bufs[id]
}

// Release drops the buffer for id. Releasing an absent id is a no-op.
func (s *Store) Release(id string) {
	s.mu.Lock()
	_, ok := s.bufs[id]
	delete(s.bufs, id)
	s.mu.Unlock()
	if ok {
		s.log.Debug("sequence released", zap.String("genome", id))
	}
}

// Len returns the number of resident buffers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bufs)
}

// Payload returns the bytes a dispatch should hand to an execution
// context: the buffer itself when shared, a private copy otherwise.
func (s *Store) Payload(b *Buffer) []byte {
	if b == nil {
		return nil
	}
	if b.Shared {
		return b.Bytes
	}
	return append([]byte(nil), b.Bytes...)
}
