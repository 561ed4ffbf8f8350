// Package store caches fetched job logs together with their parsed
// sections. The parsing core is stateless; this cache is the only place a
// job's raw log and parse result live between screens.
package store

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"actionlog/internal/model"
)

// DefaultTTL bounds how long a job snapshot is kept. A finished run's log
// never changes, so the TTL only limits memory over a long session.
const DefaultTTL = 15 * time.Minute

// Snapshot is an immutable view of one fetched job: the raw log, the parse
// result, and the identity of the parser that produced it. SectionNames
// preserves the parser's declared section order, which the map alone loses.
type Snapshot struct {
	RawLog       string
	Result       model.ParseResult
	ParserName   string
	SectionNames []string
}

// Store is a TTL cache of job snapshots keyed by job id.
type Store struct {
	cache *gocache.Cache
}

// New creates a store with the given TTL; non-positive falls back to
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: gocache.New(ttl, ttl)}
}

// Get returns the snapshot for a job, if cached.
func (s *Store) Get(jobID int64) (Snapshot, bool) {
	value, ok := s.cache.Get(key(jobID))
	if !ok {
		return Snapshot{}, false
	}
	return value.(Snapshot), true
}

// Put stores a job snapshot.
func (s *Store) Put(jobID int64, snap Snapshot) {
	s.cache.Set(key(jobID), snap, gocache.DefaultExpiration)
}

// Invalidate drops a job's snapshot, forcing the next access to refetch.
func (s *Store) Invalidate(jobID int64) {
	s.cache.Delete(key(jobID))
}

func key(jobID int64) string {
	return strconv.FormatInt(jobID, 10)
}
