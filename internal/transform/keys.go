package transform

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

// KeyLength is the length of generated block keys.
const KeyLength = 12

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// KeyGenerator produces _key values for synthesized array items.
type KeyGenerator interface {
	NewKey() string
}

// RandomKeys draws KeyLength characters uniformly, with replacement, from
// a-z and 0-9. The zero value is ready to use.
type RandomKeys struct{}

// NewKey returns a fresh random key.
func (RandomKeys) NewKey() string {
	b := make([]byte, KeyLength)
	for i := range b {
		b[i] = keyAlphabet[rand.IntN(len(keyAlphabet))]
	}

	return string(b)
}

// SequenceKeys hands out a fixed list of keys in order and wraps around when
// exhausted. It is safe for concurrent use.
type SequenceKeys struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewSequenceKeys returns a generator cycling through keys. It panics when
// keys is empty.
func NewSequenceKeys(keys ...string) *SequenceKeys {
	if len(keys) == 0 {
		panic("transform: NewSequenceKeys needs at least one key")
	}

	return &SequenceKeys{keys: keys}
}

// NewKey returns the next key of the sequence.
func (s *SequenceKeys) NewKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.keys[s.next%len(s.keys)]
	s.next++

	return k
}

// CounterKeys yields zero-padded base-36 counters of KeyLength characters
// ("000000000001", "000000000002", ...). Useful for reproducible output.
type CounterKeys struct {
	mu sync.Mutex
	n  uint64
}

// NewKey returns the next counter value.
func (c *CounterKeys) NewKey() string {
	c.mu.Lock()
	c.n++
	n := c.n
	c.mu.Unlock()

	s := strconv.FormatUint(n, 36)
	if len(s) >= KeyLength {
		return s[len(s)-KeyLength:]
	}

	return strings.Repeat("0", KeyLength-len(s)) + s
}
