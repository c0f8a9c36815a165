package cache

import "time"

// BytesCache stores serialized HTTP responses keyed by request shape.
// Implementations must be safe for concurrent use.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

var (
	_ BytesCache = (*TTLCache)(nil)
	_ BytesCache = (*RedisBytesCache)(nil)
)
