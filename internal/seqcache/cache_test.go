package seqcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterNormalizes(t *testing.T) {
	s := New(true, zap.NewNop())
	b := s.Register("g1", []byte("acgtx"))
	require.NotNil(t, b)
	assert.Equal(t, "ACGTN", string(b.Bytes))
	assert.Equal(t, 5, b.Length)
	assert.True(t, b.Shared)
}

func TestRegisterReplaces(t *testing.T) {
	s := New(true, nil)
	s.Register("g1", []byte("AAAA"))
	s.Register("g1", []byte("CC"))
	b := s.Get("g1")
	require.NotNil(t, b)
	assert.Equal(t, "CC", string(b.Bytes))
	assert.Equal(t, 1, s.Len())
}

func TestGetAbsent(t *testing.T) {
	s := New(true, nil)
	assert.Nil(t, s.Get("missing"))
}

func TestReleaseIsIdempotent(t *testing.T) {
	s := New(true, nil)
	s.Register("g1", []byte("ACGT"))
	s.Release("g1")
	s.Release("g1")
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Get("g1"))
}

func TestPayloadSharedIsSameBacking(t *testing.T) {
	s := New(true, nil)
	b := s.Register("g1", []byte("ACGT"))
	p := s.Payload(b)
	assert.Equal(t, &b.Bytes[0], &p[0], "shared payload must alias the buffer")
}

func TestPayloadUnsharedIsCopy(t *testing.T) {
	s := New(false, nil)
	b := s.Register("g1", []byte("ACGT"))
	p := s.Payload(b)
	require.Equal(t, string(b.Bytes), string(p))
	assert.NotSame(t, &b.Bytes[0], &p[0], "unshared payload must be a private copy")
}

func TestPayloadNil(t *testing.T) {
	s := New(true, nil)
	assert.Nil(t, s.Payload(nil))
}

func TestConcurrentRegisterAndGet(t *testing.T) {
	s := New(true, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Register("shared", []byte("ACGTACGT"))
				if b := s.Get("shared"); b != nil {
					_ = s.Payload(b)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
