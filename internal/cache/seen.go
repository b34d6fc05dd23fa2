package cache

import "time"

// Seen keeps a fixed-size set of recently processed document IDs.
type Seen struct {
	ttl *TTL[struct{}]
}

// NewSeen creates a seen-set with the provided capacity and ttl.
func NewSeen(capacity int, ttl time.Duration) *Seen {
	return &Seen{ttl: NewTTL[struct{}](capacity, ttl)}
}

// IsSeen returns true when the key has already been observed inside the ttl window.
// It does not mark the key as seen; use MarkSeen() to record a key.
func (s *Seen) IsSeen(key string) bool {
	_, ok := s.ttl.Get(key)
	return ok
}

// MarkSeen records that a key has been processed.
func (s *Seen) MarkSeen(key string) {
	s.ttl.Set(key, struct{}{})
}
