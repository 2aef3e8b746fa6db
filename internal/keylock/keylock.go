// Package keylock serializes work per key with a bounded set of mutexes.
// Keys are placed on stripes through a consistent-hash ring, so the lock
// table never grows with the number of jobs.
package keylock

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"sync"

	"github.com/buraksezer/consistent"
)

// DefaultStripes is used when New is given a non-positive count
const DefaultStripes = 32

type stripe string

func (s stripe) String() string {
	return string(s)
}

type hasher struct{}

func (hasher) Sum64(data []byte) uint64 {
	out := sha256.Sum256(data)
	return binary.BigEndian.Uint64(out[:8])
}

// Locker hands out one mutex per key. Different keys may share a stripe.
type Locker struct {
	ring  *consistent.Consistent
	locks map[string]*sync.Mutex
}

// New creates a locker with the given number of stripes
func New(stripes int) *Locker {
	if stripes <= 0 {
		stripes = DefaultStripes
	}

	cfg := consistent.Config{
		PartitionCount:    stripes * 7,
		ReplicationFactor: 20,
		Load:              1.25,
		Hasher:            hasher{},
	}

	members := make([]consistent.Member, 0, stripes)
	locks := make(map[string]*sync.Mutex, stripes)
	for i := 0; i < stripes; i++ {
		name := "stripe-" + strconv.Itoa(i)
		members = append(members, stripe(name))
		locks[name] = &sync.Mutex{}
	}

	return &Locker{
		ring:  consistent.New(members, cfg),
		locks: locks,
	}
}

// Lock blocks until the stripe of key is held and returns its release func
func (l *Locker) Lock(key string) func() {
	mu := l.mutex(key)
	mu.Lock()
	return mu.Unlock
}

// Stripe returns the name of the stripe that guards key
func (l *Locker) Stripe(key string) string {
	return l.ring.LocateKey([]byte(key)).String()
}

func (l *Locker) mutex(key string) *sync.Mutex {
	return l.locks[l.Stripe(key)]
}
